// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package unilog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/unilog/sink"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
	// ErrSettingsNotValid reports failures that occur while decoding the
	// optional settings file.
	ErrSettingsNotValid = errors.New("settings file not valid")
)

// Config is the sink installation configuration the registry applies to
// every logger it creates. It is resolved from the environment by LoadConfig;
// the zero value is not useful, start from DefaultConfig instead.
type Config struct {
	EnableFileLogging       bool     `env:"ENABLE_FILE_LOGGING" envDefault:"true"`
	EnableLogstash          bool     `env:"ENABLE_LOGSTASH" envDefault:"false"`
	LogstashHost            string   `env:"LOGSTASH_HOST" envDefault:"localhost"`
	LogstashPort            int      `env:"LOGSTASH_PORT" envDefault:"5000"`
	LogFilePath             string   `env:"LOG_FILE_PATH" envDefault:"logs/application.log"`
	SettingsPath            string   `env:"LOG_CONFIG_PATH"`
	EnableEmailNotification bool     `env:"ENABLE_EMAIL_NOTIFICATION" envDefault:"false"`
	SMTPHost                string   `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort                int      `env:"SMTP_PORT" envDefault:"587"`
	SMTPUseTLS              bool     `env:"SMTP_USE_TLS" envDefault:"true"`
	EmailFrom               string   `env:"EMAIL_FROM"`
	EmailTo                 []string `env:"EMAIL_TO"`
	EmailUsername           string   `env:"EMAIL_USERNAME"`
	EmailPassword           string   `env:"EMAIL_PASSWORD"`
	ProjectName             string   `env:"PROJECT_NAME" envDefault:"unilog"`

	// Tuning carries the knobs of the optional settings file.
	Tuning Settings

	// ConsoleWriter overrides the console sink destination, stderr when nil.
	ConsoleWriter io.Writer
	// ConsoleColor overrides the console color detection.
	ConsoleColor sink.ColorMode
}

// Settings holds the sink tuning knobs that live in the optional YAML file
// pointed at by LOG_CONFIG_PATH rather than in environment variables.
type Settings struct {
	File     FileSettings     `yaml:"file"`
	Logstash LogstashSettings `yaml:"logstash"`
}

// FileSettings tunes the file sink rotation.
type FileSettings struct {
	// MaxSize is the rotation threshold in megabytes.
	MaxSize    int  `yaml:"maxSize"`
	MaxBackups int  `yaml:"maxBackups"`
	MaxAge     int  `yaml:"maxAge"`
	Compress   bool `yaml:"compress"`
}

// LogstashSettings tunes the shipping sink network behavior.
type LogstashSettings struct {
	DialTimeout   Duration `yaml:"dialTimeout"`
	WriteTimeout  Duration `yaml:"writeTimeout"`
	RetryCooldown Duration `yaml:"retryCooldown"`
}

// Duration wraps time.Duration so settings files can use Go duration strings
// like "5s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML decodes a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// DefaultSettings returns the tuning defaults: 10 MB rotation with 5 kept
// backups, 5 s network timeouts and a 30 s shipping cooldown.
func DefaultSettings() Settings {
	return Settings{
		File: FileSettings{
			MaxSize:    10,
			MaxBackups: 5,
		},
		Logstash: LogstashSettings{
			DialTimeout:   Duration(5 * time.Second),
			WriteTimeout:  Duration(5 * time.Second),
			RetryCooldown: Duration(30 * time.Second),
		},
	}
}

// DefaultConfig returns the configuration used when nothing is set in the
// environment: console plus file sink, no shipping, no email.
func DefaultConfig() Config {
	config, _ := env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{}})
	config.Tuning = DefaultSettings()
	return config
}

// LoadConfig resolves the configuration from the environment and the optional
// settings file. The returned Config is always usable: when something cannot
// be parsed the affected part degrades to its default and the error reports
// what was ignored, so callers can log it and keep going.
func LoadConfig() (Config, error) {
	config, err := env.ParseAs[Config]()
	if err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}
	config.Tuning = DefaultSettings()
	config.EmailTo = splitRecipients(config.EmailTo)

	if config.SettingsPath != "" {
		settings, err := loadSettings(config.SettingsPath, config.Tuning)
		if err != nil {
			return config, err
		}
		config.Tuning = settings
	}

	return config, nil
}

// splitRecipients trims whitespace the comma-separated EMAIL_TO value may
// carry and drops empty entries.
func splitRecipients(recipients []string) []string {
	cleaned := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		if trimmed := strings.TrimSpace(recipient); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// loadSettings decodes the settings file over the given defaults, so omitted
// fields keep their default values.
func loadSettings(path string, defaults Settings) (Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return defaults, fmt.Errorf("%w %q: %s", ErrSettingsNotValid, path, err.Error())
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	settings := defaults
	if err := decoder.Decode(&settings); err != nil {
		return defaults, fmt.Errorf("%w %q: %s", ErrSettingsNotValid, path, err.Error())
	}
	return settings, nil
}
