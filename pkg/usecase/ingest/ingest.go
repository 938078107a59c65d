// Package ingest runs the write path: URL to transcript to chunks to
// vector index, with a transcript cache in front of the expensive steps.
package ingest

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/tuned-app/tuned/pkg/adapter"
	"github.com/tuned-app/tuned/pkg/cache"
	"github.com/tuned-app/tuned/pkg/chunker"
	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/usecase/index"
	"github.com/tuned-app/tuned/pkg/utils/logging"
)

// UseCase provides video ingestion.
type UseCase struct {
	source      adapter.VideoSource
	transcriber adapter.Transcriber
	cache       *cache.TranscriptCache
	index       *index.UseCase

	chunkOpts []chunker.Option
	workDir   string
}

// Option is a functional option for UseCase.
type Option func(*UseCase)

// WithChunkOptions forwards chunking parameters.
func WithChunkOptions(opts ...chunker.Option) Option {
	return func(u *UseCase) {
		u.chunkOpts = opts
	}
}

// WithWorkDir sets the directory for temporary audio downloads. Defaults
// to the OS temp directory.
func WithWorkDir(dir string) Option {
	return func(u *UseCase) {
		u.workDir = dir
	}
}

// New creates an ingest UseCase.
func New(source adapter.VideoSource, transcriber adapter.Transcriber, transcripts *cache.TranscriptCache, idx *index.UseCase, opts ...Option) *UseCase {
	u := &UseCase{
		source:      source,
		transcriber: transcriber,
		cache:       transcripts,
		index:       idx,
		workDir:     os.TempDir(),
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Ingest fetches (or loads from cache) the transcript for a YouTube URL,
// chunks it, and indexes the chunks. Indexing an already-known video is a
// no-op on the index side, so re-ingestion is cheap and idempotent.
func (u *UseCase) Ingest(ctx context.Context, url string) (*model.TranscriptResult, error) {
	logger := logging.From(ctx)

	videoID, err := model.ExtractVideoID(url)
	if err != nil {
		return nil, err
	}

	result, hit := u.cache.Get(ctx, videoID)
	if hit {
		logger.Info("transcript cache hit", "video_id", videoID)
	} else {
		result, err = u.fetchTranscript(ctx, videoID)
		if err != nil {
			return nil, err
		}
		if err := u.cache.Put(ctx, result); err != nil {
			return nil, goerr.Wrap(err, "failed to cache transcript", goerr.V("video_id", videoID))
		}
	}

	chunks := chunker.Build(result, u.chunkOpts...)
	if err := u.index.Index(ctx, chunks); err != nil {
		return nil, goerr.Wrap(err, "failed to index transcript", goerr.V("video_id", videoID))
	}

	logger.Info("ingested video", "video_id", videoID, "title", result.TitleOrDefault(), "segments", len(result.Segments), "chunks", len(chunks))
	return result, nil
}

func (u *UseCase) fetchTranscript(ctx context.Context, videoID string) (*model.TranscriptResult, error) {
	logger := logging.From(ctx)

	title := u.source.Title(ctx, videoID)

	audioPath, err := u.source.DownloadAudio(ctx, videoID, u.workDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download audio", goerr.V("video_id", videoID))
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil {
			logger.Warn("failed to remove temporary audio file", "path", audioPath, "error", err)
		}
	}()

	segments, err := u.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to transcribe audio", goerr.V("video_id", videoID))
	}

	result := &model.TranscriptResult{
		VideoID:  videoID,
		Title:    title,
		URL:      model.WatchURL(videoID),
		Segments: segments,
		Source:   "whisper",
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}
