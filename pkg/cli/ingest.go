package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/tuned-app/tuned/pkg/adapter"
	"github.com/tuned-app/tuned/pkg/chunker"
	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/usecase/index"
	"github.com/tuned-app/tuned/pkg/usecase/ingest"
)

const (
	defaultTargetWords  = 400
	defaultOverlapWords = 50
)

func ingestCommand() *cli.Command {
	var (
		cfg          config
		targetWords  int64
		overlapWords int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "target-words",
			Usage:       "Approximate words per chunk",
			Value:       defaultTargetWords,
			Sources:     cli.EnvVars("TUNED_TARGET_WORDS"),
			Destination: &targetWords,
		},
		&cli.IntFlag{
			Name:        "overlap-words",
			Usage:       "Words of overlap between consecutive chunks",
			Value:       defaultOverlapWords,
			Sources:     cli.EnvVars("TUNED_OVERLAP_WORDS"),
			Destination: &overlapWords,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, cacheFlags(&cfg)...)

	return &cli.Command{
		Name:      "ingest",
		Usage:     "Transcribe and index one or more YouTube videos",
		ArgsUsage: "<youtube-url>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			urls := c.Args().Slice()
			if len(urls) == 0 {
				return goerr.New("at least one YouTube URL is required")
			}

			file, err := loadFileConfig(cfg.configPath)
			if err != nil {
				return err
			}

			repo, closer, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closer()

			gemini, err := cfg.newGemini(ctx, file)
			if err != nil {
				return err
			}
			if gemini == nil {
				return goerr.Wrap(model.ErrNoCredential, model.MissingProjectMessage)
			}

			whisper, err := cfg.newWhisper()
			if err != nil {
				return err
			}

			transcripts, err := cfg.newCache(ctx)
			if err != nil {
				return err
			}

			uc := ingest.New(
				adapter.NewYouTube(),
				whisper,
				transcripts,
				index.New(repo, gemini),
				ingest.WithChunkOptions(
					chunker.WithTargetWords(resolveChunkWords(targetWords, c.IsSet("target-words"), file.Chunking.TargetWords, defaultTargetWords)),
					chunker.WithOverlapWords(resolveChunkWords(overlapWords, c.IsSet("overlap-words"), file.Chunking.OverlapWords, defaultOverlapWords)),
				),
			)

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			for _, url := range urls {
				s.Suffix = " ingesting " + url
				s.Start()
				result, err := uc.Ingest(ctx, url)
				s.Stop()
				if err != nil {
					return goerr.Wrap(err, "failed to ingest video", goerr.V("url", url))
				}
				fmt.Fprintf(c.Root().Writer, "Indexed %s (%s, %d segments)\n", result.VideoID, result.TitleOrDefault(), len(result.Segments))
			}

			return nil
		},
	}
}
