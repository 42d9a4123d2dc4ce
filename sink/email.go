// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/mia-platform/unilog/format"
)

const emailTimestampLayout = "2006-01-02 15:04:05"

// EmailConfig configures the SMTP notification sink. From, To and Password
// are required; Username falls back to From and SendTimeout to 10 s.
type EmailConfig struct {
	Host     string
	Port     int
	UseTLS   bool
	From     string
	To       []string
	Username string
	Password string
	// Project tags the subject and body so recipients can tell deployments
	// apart.
	Project string
	// SendTimeout bounds a single SMTP delivery.
	SendTimeout time.Duration
	// QueueSize bounds the records waiting for delivery, 32 when zero.
	QueueSize int
}

var _ Sink = &emailSink{}

type emailSink struct {
	client  *mail.Client
	from    string
	to      []string
	project string

	queue   chan format.Entry
	done    chan struct{}
	failure atomic.Pointer[error]

	lock   sync.RWMutex
	closed bool
}

// NewEmail builds the notification sink and starts its delivery worker.
// Records at ERROR and above are queued and sent one at a time; a full queue
// or a failed delivery drops the record.
func NewEmail(config EmailConfig) (Sink, error) {
	missing := make([]string, 0)
	if config.From == "" {
		missing = append(missing, "sender address")
	}
	if len(config.To) == 0 {
		missing = append(missing, "recipient addresses")
	}
	if config.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: email notification requires %s", ErrConfigNotValid, strings.Join(missing, ", "))
	}
	if config.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is empty", ErrConfigNotValid)
	}
	if config.Port < 1 || config.Port > 65535 {
		return nil, fmt.Errorf("%w: SMTP port %d is out of valid range (1-65535)", ErrConfigNotValid, config.Port)
	}
	if config.Username == "" {
		config.Username = config.From
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 10 * time.Second
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 32
	}

	tlsPolicy := mail.NoTLS
	if config.UseTLS {
		tlsPolicy = mail.TLSMandatory
	}
	client, err := mail.NewClient(config.Host,
		mail.WithPort(config.Port),
		mail.WithTLSPolicy(tlsPolicy),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(config.Username),
		mail.WithPassword(config.Password),
		mail.WithTimeout(config.SendTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: building SMTP client: %s", ErrConfigNotValid, err.Error())
	}

	sink := &emailSink{
		client:  client,
		from:    config.From,
		to:      config.To,
		project: config.Project,
		queue:   make(chan format.Entry, config.QueueSize),
		done:    make(chan struct{}),
	}
	go sink.deliver()
	return sink, nil
}

func (s *emailSink) Kind() Kind {
	return KindEmail
}

// Enabled restricts the sink to ERROR and above regardless of the logger
// threshold.
func (s *emailSink) Enabled(level format.Level) bool {
	return level >= format.ERROR
}

// Emit queues the entry for asynchronous delivery. It reports a full queue
// immediately and the most recent delivery failure on the following call, so
// the owning logger can raise its one-time warning without ever blocking on
// SMTP.
func (s *emailSink) Emit(entry format.Entry) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closed {
		return fmt.Errorf("%w: email sink is closed", ErrUnavailable)
	}

	select {
	case s.queue <- entry:
	default:
		return fmt.Errorf("%w: email queue is full", ErrUnavailable)
	}

	if failure := s.failure.Swap(nil); failure != nil {
		return *failure
	}
	return nil
}

func (s *emailSink) deliver() {
	defer close(s.done)
	for entry := range s.queue {
		if err := s.send(entry); err != nil {
			wrapped := fmt.Errorf("%w: sending notification: %s", ErrUnavailable, err.Error())
			s.failure.Store(&wrapped)
		}
	}
}

func (s *emailSink) send(entry format.Entry) error {
	message := mail.NewMsg()
	if err := message.From(s.from); err != nil {
		return err
	}
	if err := message.To(s.to...); err != nil {
		return err
	}
	message.Subject(emailSubject(s.project, entry))
	message.SetBodyString(mail.TypeTextPlain, emailBody(s.project, entry))

	return s.client.DialAndSend(message)
}

// Close stops the delivery worker after draining the queue. The SMTP client
// needs no teardown, DialAndSend opens and closes a connection per message.
func (s *emailSink) Close() error {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.lock.Unlock()

	<-s.done
	return nil
}

func levelEmoji(level format.Level) string {
	switch {
	case level >= format.CRITICAL:
		return "🚨"
	case level >= format.ERROR:
		return "❌"
	default:
		return "⚠️"
	}
}

func emailSubject(project string, entry format.Entry) string {
	return fmt.Sprintf("%s [%s] %s - %s",
		levelEmoji(entry.Level), project, entry.Level.String(), entry.Time.Format(emailTimestampLayout))
}

func emailBody(project string, entry format.Entry) string {
	builder := new(strings.Builder)

	builder.WriteString(entry.Time.Format(emailTimestampLayout) + "\n")
	builder.WriteString("Project: " + project + "\n")
	builder.WriteString("Level: " + entry.Level.String() + "\n")
	builder.WriteString("Logger: " + entry.Logger + "\n")
	if source := format.CallerSource(entry.PC); source.File != "" {
		fmt.Fprintf(builder, "Location: %s:%d\n", source.File, source.Line)
		builder.WriteString("Function: " + source.Function + "\n")
	}

	builder.WriteString("\nMessage:\n" + entry.Message + "\n")

	for _, attr := range entry.Attrs {
		fmt.Fprintf(builder, "\n%s: %s", attr.Key, attr.Value.Resolve().String())
	}

	if entry.Err != nil {
		exc := format.ExceptionFromError(entry.Err)
		fmt.Fprintf(builder, "\nException: %s: %s\n", exc.Type, exc.Message)
		if exc.StackTrace != "" {
			builder.WriteString(exc.StackTrace + "\n")
		}
	}

	return builder.String()
}
