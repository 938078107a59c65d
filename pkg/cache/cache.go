// Package cache persists transcripts keyed by video id so re-ingesting a
// known video skips the download and transcription steps.
package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/tuned-app/tuned/pkg/adapter"
	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/utils/logging"
)

// TranscriptCache wraps a blob store with the JSON encoding of
// TranscriptResult records.
type TranscriptCache struct {
	storage adapter.Storage
}

// New creates a TranscriptCache over the given blob store.
func New(storage adapter.Storage) *TranscriptCache {
	return &TranscriptCache{storage: storage}
}

func cacheKey(videoID string) string {
	return videoID + "_transcript.json"
}

// Get returns the cached transcript for videoID, or (nil, false) on a
// miss. A corrupt or schema-mismatched entry is a miss, not an error; it
// will be overwritten on the next Put.
func (c *TranscriptCache) Get(ctx context.Context, videoID string) (*model.TranscriptResult, bool) {
	logger := logging.From(ctx)

	reader, err := c.storage.Get(ctx, cacheKey(videoID))
	if err != nil {
		if !errors.Is(err, adapter.ErrNotExist) {
			logger.Warn("failed to read transcript cache, treating as miss", "video_id", videoID, "error", err)
		}
		return nil, false
	}
	defer reader.Close()

	var result model.TranscriptResult
	if err := json.NewDecoder(reader).Decode(&result); err != nil {
		logger.Warn("corrupt transcript cache entry, treating as miss", "video_id", videoID, "error", err)
		return nil, false
	}
	if result.VideoID != videoID || len(result.Segments) == 0 {
		logger.Warn("cache entry does not match schema, treating as miss", "video_id", videoID)
		return nil, false
	}
	return &result, true
}

// Put stores the transcript under its video id.
func (c *TranscriptCache) Put(ctx context.Context, result *model.TranscriptResult) error {
	writer, err := c.storage.Put(ctx, cacheKey(result.VideoID))
	if err != nil {
		return goerr.Wrap(err, "failed to open cache writer", goerr.V("video_id", result.VideoID))
	}

	if err := json.NewEncoder(writer).Encode(result); err != nil {
		writer.Close()
		return goerr.Wrap(err, "failed to encode transcript", goerr.V("video_id", result.VideoID))
	}
	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to finish cache write", goerr.V("video_id", result.VideoID))
	}
	return nil
}
