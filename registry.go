// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package unilog

import (
	"sync"
	"time"

	"github.com/mia-platform/unilog/sink"
)

// Registry is the logger configurator: it owns the name → Logger map and
// applies its Config to every logger it hands out. Setup never fails; sinks
// that cannot be attached degrade to a one-time console warning.
type Registry struct {
	config Config

	lock    sync.Mutex
	loggers map[string]*Logger

	// loadFailure is reported once on the first configured logger when the
	// configuration had to degrade to defaults.
	loadFailure error
	warnedLoad  bool
}

// NewRegistry builds a configurator around an explicit configuration. Most
// callers use the package-level Setup and its environment-driven registry
// instead.
func NewRegistry(config Config) *Registry {
	return &Registry{
		config:  config,
		loggers: map[string]*Logger{},
	}
}

// Setup returns the logger registered under name, creating it on first use.
//
// The call is idempotent: repeated calls for the same name return the same
// logger without duplicating sinks. Every call applies the level (last
// caller wins) and re-checks the sink set, so a sink that previously failed
// to attach gets another chance. The console sink is always attached first,
// which guarantees a destination for degradation warnings.
func (r *Registry) Setup(name string, level Level) *Logger {
	r.lock.Lock()
	defer r.lock.Unlock()

	logger, found := r.loggers[name]
	if !found {
		logger = NewLogger(name, level, sink.NewConsole(sink.ConsoleConfig{
			Writer: r.config.ConsoleWriter,
			Color:  r.config.ConsoleColor,
		}))
		r.loggers[name] = logger
	}
	logger.SetLevel(level)

	if r.loadFailure != nil && !r.warnedLoad {
		r.warnedLoad = true
		logger.Warning("configuration degraded to defaults", "reason", r.loadFailure.Error())
	}

	r.ensureSinks(logger)
	return logger
}

// Lookup returns the logger registered under name, if any.
func (r *Registry) Lookup(name string) (*Logger, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	logger, found := r.loggers[name]
	return logger, found
}

// Names returns the names of all registered loggers.
func (r *Registry) Names() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	return names
}

// ensureSinks attaches every sink the configuration enables and the logger
// does not have yet. Attach failures warn once per kind and never propagate.
func (r *Registry) ensureSinks(logger *Logger) {
	if r.config.EnableFileLogging && !logger.HasSink(sink.KindFile) {
		fileSink, err := sink.NewFile(sink.FileConfig{
			Path:       r.config.LogFilePath,
			MaxSizeMB:  r.config.Tuning.File.MaxSize,
			MaxBackups: r.config.Tuning.File.MaxBackups,
			MaxAgeDays: r.config.Tuning.File.MaxAge,
			Compress:   r.config.Tuning.File.Compress,
		})
		r.attachOrWarn(logger, sink.KindFile, fileSink, err)
	}

	if r.config.EnableLogstash && !logger.HasSink(sink.KindLogstash) {
		logstashSink, err := sink.NewLogstash(sink.LogstashConfig{
			Host:          r.config.LogstashHost,
			Port:          r.config.LogstashPort,
			DialTimeout:   time.Duration(r.config.Tuning.Logstash.DialTimeout),
			WriteTimeout:  time.Duration(r.config.Tuning.Logstash.WriteTimeout),
			RetryCooldown: time.Duration(r.config.Tuning.Logstash.RetryCooldown),
		})
		r.attachOrWarn(logger, sink.KindLogstash, logstashSink, err)
	}

	if r.config.EnableEmailNotification && !logger.HasSink(sink.KindEmail) {
		emailSink, err := sink.NewEmail(sink.EmailConfig{
			Host:     r.config.SMTPHost,
			Port:     r.config.SMTPPort,
			UseTLS:   r.config.SMTPUseTLS,
			From:     r.config.EmailFrom,
			To:       r.config.EmailTo,
			Username: r.config.EmailUsername,
			Password: r.config.EmailPassword,
			Project:  r.config.ProjectName,
		})
		r.attachOrWarn(logger, sink.KindEmail, emailSink, err)
	}
}

func (r *Registry) attachOrWarn(logger *Logger, kind sink.Kind, target sink.Sink, err error) {
	if err != nil {
		logger.sinks.warnOnce(kind, logger.name, "log sink not attached, continuing without it", err)
		return
	}
	logger.Attach(target)
}
