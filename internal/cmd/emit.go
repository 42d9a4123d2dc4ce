// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/unilog"
)

const (
	emitCmdUsage = "emit"
	emitCmdShort = "configure a logger from the environment and emit sample records"
	emitCmdLong  = `Configure a named logger from the current environment and emit one sample
	record at every level.

	The logger is set up exactly as a service would set it up: console output
	plus the file, Logstash, and email sinks the environment enables. Use it
	to verify a logging configuration before deploying it.`

	emitCmdExample = `# Emit sample records at DEBUG and above
	unilog emit --level DEBUG

	# Emit through a named logger with a custom message
	unilog emit --name payments --message "smoke test"

	# Attach a sample error to the ERROR record
	unilog emit --with-error`

	nameFlagName  = "name"
	nameFlagUsage = "name of the logger to configure"
	defaultName   = "unilog"

	levelFlagName  = "level"
	levelFlagUsage = "threshold level for the logger"
	defaultLevel   = "DEBUG"

	messageFlagName  = "message"
	messageFlagUsage = "message of the emitted records"
	defaultMessage   = "sample record"

	withErrorFlagName  = "with-error"
	withErrorFlagUsage = "attach a sample error to the ERROR record"
	defaultWithError   = false
)

// allLevels holds the accepted threshold names for help messages and
// command completion.
var allLevels = []string{
	unilog.DEBUG.String(),
	unilog.INFO.String(),
	unilog.WARNING.String(),
	unilog.ERROR.String(),
	unilog.CRITICAL.String(),
}

// EmitCmd return the "emit" cli command for sending sample records through
// an environment-configured logger.
func EmitCmd() *cobra.Command {
	flags := &emitFlags{}
	cmd := &cobra.Command{
		Use:     emitCmdUsage,
		Short:   heredoc.Doc(emitCmdShort),
		Long:    heredoc.Doc(emitCmdLong),
		Example: heredoc.Doc(emitCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toOptions()
			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			opts.execute()
			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// emitFlags holds the flags for the "emit" command.
type emitFlags struct {
	name      string
	level     string
	message   string
	withError bool
}

// addFlags adds the cli flags to the cobra command.
func (f *emitFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, nameFlagName, defaultName, nameFlagUsage)
	cmd.Flags().StringVar(&f.level, levelFlagName, defaultLevel,
		levelFlagUsage+" (possible values: "+strings.Join(allLevels, ", ")+")")
	cmd.Flags().StringVar(&f.message, messageFlagName, defaultMessage, messageFlagUsage)
	cmd.Flags().BoolVar(&f.withError, withErrorFlagName, defaultWithError, withErrorFlagUsage)

	_ = cmd.RegisterFlagCompletionFunc(levelFlagName,
		cobra.FixedCompletions(allLevels, cobra.ShellCompDirectiveNoFileComp))
}

// toOptions converts the emit flags to emitOptions.
func (f *emitFlags) toOptions() *emitOptions {
	return &emitOptions{
		name:      f.name,
		level:     f.level,
		message:   f.message,
		withError: f.withError,
	}
}
