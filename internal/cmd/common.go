// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mia-platform/unilog"
	"github.com/mia-platform/unilog/internal/receiver"
)

var (
	errEmptyName = errors.New("logger name cannot be empty")

	// setupLogger configures the named logger from the environment.
	// It can be overridden for testing purposes.
	setupLogger = unilog.Setup

	// newReceiver builds the TCP receiver for the listen command.
	// It can be overridden for testing purposes.
	newReceiver = receiver.NewReceiver
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errEmptyName):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}
