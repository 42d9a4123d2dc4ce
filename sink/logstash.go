// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/mia-platform/unilog/format"
)

// LogstashConfig configures the TCP shipping sink. Zero timeouts fall back
// to 5 s for dialing and writing and a 30 s cooldown between reconnection
// attempts.
type LogstashConfig struct {
	Host string
	Port int
	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration
	// WriteTimeout bounds the delivery of a single record.
	WriteTimeout time.Duration
	// RetryCooldown is how long shipping stays suspended after a failure.
	RetryCooldown time.Duration
}

var _ Sink = &logstashSink{}

type logstashSink struct {
	address       string
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryCooldown time.Duration
	formatter     format.Formatter

	lock    sync.Mutex
	conn    net.Conn
	retryAt time.Time
}

// NewLogstash builds the shipping sink. The connection is dialed lazily on
// the first record, so an endpoint that is down at configuration time only
// degrades emission, it never fails the configuration call.
func NewLogstash(config LogstashConfig) (Sink, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("%w: logstash host is empty", ErrConfigNotValid)
	}
	if config.Port < 1 || config.Port > 65535 {
		return nil, fmt.Errorf("%w: logstash port %d is out of valid range (1-65535)", ErrConfigNotValid, config.Port)
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if config.RetryCooldown <= 0 {
		config.RetryCooldown = 30 * time.Second
	}

	return &logstashSink{
		address:       net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		dialTimeout:   config.DialTimeout,
		writeTimeout:  config.WriteTimeout,
		retryCooldown: config.RetryCooldown,
		formatter:     format.JSON{},
	}, nil
}

func (s *logstashSink) Kind() Kind {
	return KindLogstash
}

func (s *logstashSink) Enabled(format.Level) bool {
	return true
}

// Emit ships one JSON line. A failed record is dropped: the connection is
// torn down and further attempts are suspended for the cooldown period.
func (s *logstashSink) Emit(entry format.Entry) error {
	line := append(s.formatter.Format(entry), '\n')

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.ensureConnection(); err != nil {
		return err
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if _, err := s.conn.Write(line); err != nil {
		s.teardown()
		return fmt.Errorf("%w: shipping to %s: %s", ErrUnavailable, s.address, err.Error())
	}
	return nil
}

func (s *logstashSink) ensureConnection() error {
	if s.conn != nil {
		return nil
	}
	if time.Now().Before(s.retryAt) {
		return fmt.Errorf("%w: shipping to %s suspended after failure", ErrUnavailable, s.address)
	}

	conn, err := net.DialTimeout("tcp", s.address, s.dialTimeout)
	if err != nil {
		s.retryAt = time.Now().Add(s.retryCooldown)
		return fmt.Errorf("%w: connecting to %s: %s", ErrUnavailable, s.address, err.Error())
	}
	s.conn = conn
	return nil
}

func (s *logstashSink) teardown() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.retryAt = time.Now().Add(s.retryCooldown)
}

func (s *logstashSink) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	return err
}
