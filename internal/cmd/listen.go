// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	listenCmdUsage = "listen"
	listenCmdShort = "receive shipped log records and print them on the console"
	listenCmdLong  = `Start a development receiver that accepts the records shipped by the
	Logstash sink and prints them on the console.

	The receiver listens for newline-delimited JSON documents over TCP and
	exposes health and statistics routes over HTTP. It runs until interrupted.`

	listenCmdExample = `# Receive records on the default port (5000)
	unilog listen

	# Receive records on a custom port
	RECEIVER_PORT=6000 unilog listen`
)

// ListenCmd return the "listen" cli command for running the development
// receiver until interrupted.
func ListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     listenCmdUsage,
		Short:   heredoc.Doc(listenCmdShort),
		Long:    heredoc.Doc(listenCmdLong),
		Example: heredoc.Doc(listenCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := &listenOptions{}
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}
}
