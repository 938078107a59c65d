package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/tuned-app/tuned/pkg/model"
)

func chatCommand() *cli.Command {
	var (
		cfg     config
		session string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session",
			Aliases:     []string{"s"},
			Usage:       "Session ID to resume; a new one is generated when omitted",
			Sources:     cli.EnvVars("TUNED_SESSION"),
			Destination: &session,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, sessionFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive Q&A over the indexed videos",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			sessionID := model.SessionID(session)
			if strings.TrimSpace(session) == "" {
				sessionID = model.NewSessionID()
			}

			uc, closer, err := cfg.newAnswerUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "> ",
				HistoryFile: filepath.Join(os.TempDir(), ".tuned_chat_history"),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to start readline")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Chat session %s started. Type 'exit' to quit.\n", sessionID)

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if len(line) == 0 {
						break
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				question := strings.TrimSpace(line)
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}

				ans := uc.Ask(ctx, question, sessionID)
				fmt.Fprintf(c.Root().Writer, "%s\n\n", ans.Text)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			return nil
		},
	}
}
