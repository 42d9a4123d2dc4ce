// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/pkg/errors"

	"github.com/mia-platform/unilog"
)

// emitOptions holds the options set for the current emit run.
type emitOptions struct {
	name      string
	level     string
	message   string
	withError bool
}

// validate validates the emit options and returns an error if something is wrong.
func (o *emitOptions) validate() error {
	if o.name == "" {
		return errEmptyName
	}

	return nil
}

// execute configures the logger and emits one record at every level. Sink
// failures degrade to console warnings, so there is nothing to return.
func (o *emitOptions) execute() {
	log := setupLogger(o.name, unilog.LevelFromString(o.level))

	log.Debug(o.message)
	log.Info(o.message)
	log.Warning(o.message)
	if o.withError {
		log.Error(o.message, "error", errors.New("sample failure"))
	} else {
		log.Error(o.message)
	}
	log.Critical(o.message)
}
