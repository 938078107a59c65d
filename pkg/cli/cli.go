// Package cli wires flags, environment variables, and adapters into the
// ingest/ask/chat/list commands.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Error carries an exit code alongside the message so main can report
// failures without importing anything else.
type Error struct {
	Code    int
	Message string
}

// Run executes the command line and returns nil on success.
func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "tuned",
		Usage: "Ask questions about YouTube videos with timestamped answers",
		Commands: []*cli.Command{
			ingestCommand(),
			askCommand(),
			chatCommand(),
			listCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
