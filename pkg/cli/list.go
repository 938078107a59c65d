package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/tuned-app/tuned/pkg/usecase/index"
)

func listCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List all indexed videos",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			repo, closer, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closer()

			videos, err := index.New(repo, nil).Videos(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list videos")
			}

			if len(videos) == 0 {
				fmt.Fprintln(c.Root().Writer, "No videos indexed yet. Run 'tuned ingest <url>' first.")
				return nil
			}

			for _, v := range videos {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%d chunks\t%s\n", v.VideoID, v.Title, v.ChunkCount, v.URL)
			}
			return nil
		},
	}
}
