package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/repository"
	"github.com/tuned-app/tuned/pkg/usecase/answer"
	"github.com/tuned-app/tuned/pkg/usecase/index"
)

func askCommand() *cli.Command {
	var (
		cfg     config
		session string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session",
			Aliases:     []string{"s"},
			Usage:       "Session ID for conversation memory",
			Sources:     cli.EnvVars("TUNED_SESSION"),
			Destination: &session,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, sessionFlags(&cfg)...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask one question about the indexed videos",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("a question is required")
			}

			uc, closer, err := cfg.newAnswerUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			ans := uc.Ask(ctx, question, model.SessionID(session))
			fmt.Fprintln(c.Root().Writer, ans.Text)
			return nil
		},
	}
}

// newAnswerUseCase builds the read path. With no Google Cloud project
// configured it still returns a usecase; Ask then answers with a fixed
// message explaining the missing credential instead of failing.
func (cfg *config) newAnswerUseCase(ctx context.Context) (*answer.UseCase, func(), error) {
	file, err := loadFileConfig(cfg.configPath)
	if err != nil {
		return nil, nil, err
	}

	gemini, err := cfg.newGemini(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	if gemini == nil {
		uc := answer.New(cfg.newMemoryStore(), index.New(repository.NewMemory(), nil), nil)
		return uc, func() {}, nil
	}

	repo, closer, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	uc := answer.New(cfg.newMemoryStore(), index.New(repo, gemini), gemini)
	return uc, closer, nil
}
