// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package receiver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/unilog"
	"github.com/mia-platform/unilog/fiberlog"
	"github.com/mia-platform/unilog/format"
	"github.com/mia-platform/unilog/internal/info"
	"github.com/mia-platform/unilog/sink"
)

const (
	serviceName = "unilog"

	// maxRecordSize caps a single shipped line, stack traces included.
	maxRecordSize = 1024 * 1024
)

type Receiver interface {
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
	Addr() string
}

var (
	ErrReceiverListen   = errors.New("receiver listen error")
	ErrReceiverShutdown = errors.New("receiver shutdown error")
)

type impReceiver struct {
	config

	app *fiber.App
	out sink.Sink
	log *unilog.Logger

	lock     sync.Mutex
	listener net.Listener

	accepted  atomic.Int64
	decoded   atomic.Int64
	malformed atomic.Int64
}

var _ Receiver = &impReceiver{}

func NewReceiver(ctx context.Context) (Receiver, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return newReceiver(ctx, cfg, sink.NewConsole(sink.ConsoleConfig{Writer: os.Stdout})), nil
}

func newReceiver(ctx context.Context, cfg *config, out sink.Sink) *impReceiver {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
	})
	log := unilog.FromContext(ctx)
	app.Use(fiberlog.RequestLogger(log, []string{"/-/"}))

	receiver := &impReceiver{
		app:    app,
		config: *cfg,
		out:    out,
		log:    log,
	}
	receiver.statusRoutes(serviceName, info.Version)
	return receiver
}

// statusRoutes registers the health and statistics endpoints.
func (r *impReceiver) statusRoutes(name, version string) {
	r.app.Get("/-/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"name":    name,
			"status":  "OK",
			"version": version,
		})
	})
	r.app.Get("/-/stats", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"accepted":  r.accepted.Load(),
			"decoded":   r.decoded.Load(),
			"malformed": r.malformed.Load(),
		})
	})
}

// Start binds the TCP listener and serves connections until Stop is called.
// The HTTP status server runs alongside it.
func (r *impReceiver) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", r.ReceiverHost, r.ReceiverPort))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReceiverListen, err)
	}

	r.lock.Lock()
	r.listener = listener
	r.lock.Unlock()

	go func() {
		if err := r.app.Listen(fmt.Sprintf("%s:%d", r.ReceiverHost, r.HTTPPort)); err != nil {
			r.log.Error("status server stopped", "error", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrReceiverListen, err)
		}

		go r.handleConn(conn)
	}
}

func (r *impReceiver) Stop() error {
	r.lock.Lock()
	listener := r.listener
	r.listener = nil
	r.lock.Unlock()

	errorsList := make([]error, 0)
	if listener != nil {
		if err := listener.Close(); err != nil {
			errorsList = append(errorsList, err)
		}
	}
	if err := r.app.Shutdown(); err != nil {
		errorsList = append(errorsList, err)
	}

	if len(errorsList) > 0 {
		return fmt.Errorf("%w: %w", ErrReceiverShutdown, errors.Join(errorsList...))
	}
	return nil
}

func (r *impReceiver) StartAsync(ctx context.Context) {
	log := unilog.FromContext(ctx)
	go func() {
		if err := r.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}

// Addr returns the bound TCP address, empty before Start.
func (r *impReceiver) Addr() string {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.listener == nil {
		return ""
	}
	return r.listener.Addr().String()
}

func (r *impReceiver) handleConn(conn net.Conn) {
	defer conn.Close()
	r.accepted.Add(1)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxRecordSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		record := map[string]any{}
		if err := json.Unmarshal(line, &record); err != nil {
			r.malformed.Add(1)
			continue
		}

		r.decoded.Add(1)
		_ = r.out.Emit(entryFromRecord(record))
	}
}

// entryHandledFields are the document fields the rebuilt entry carries
// directly. Everything else is replayed as an attribute, origin metadata
// included.
var entryHandledFields = map[string]struct{}{
	"@timestamp": {},
	"level":      {},
	"logger":     {},
	"message":    {},
}

// entryFromRecord rebuilds a printable entry from a decoded document.
// Unparsable timestamps fall back to the receive time and an unknown level
// degrades to DEBUG, a record is never rejected here.
func entryFromRecord(record map[string]any) format.Entry {
	entry := format.Entry{Time: time.Now(), Level: format.DEBUG}

	if value, ok := record["@timestamp"].(string); ok {
		if parsed, err := time.Parse(format.TimestampLayout, value); err == nil {
			entry.Time = parsed
		}
	}
	if value, ok := record["level"].(string); ok {
		entry.Level = format.LevelFromString(value)
	}
	if value, ok := record["logger"].(string); ok {
		entry.Logger = value
	}
	if value, ok := record["message"].(string); ok {
		entry.Message = value
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		if _, handled := entryHandledFields[key]; handled {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		entry.Attrs = append(entry.Attrs, slog.Any(key, record[key]))
	}

	return entry
}
