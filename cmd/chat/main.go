package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ibreez3/socratic-relay/client"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		server    string
		session   string
		stateless bool
	)
	cmd := &cobra.Command{
		Use:   "tutor-chat",
		Short: "Chat with the Socratic DSA tutor from a terminal",
		Long:  "Reads one message per line. /clear resets the conversation, /quit exits.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repl := &client.REPL{
				Client:    client.New(server, client.WithSession(session)),
				Stateless: stateless,
				In:        cmd.InOrStdin(),
				Out:       cmd.OutOrStdout(),
			}
			return repl.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "http://localhost:3000", "relay base URL")
	cmd.Flags().StringVar(&session, "session", "", "session id sent as X-Session-ID")
	cmd.Flags().BoolVar(&stateless, "stateless", false, "send the local transcript as conversationHistory")
	return cmd
}
