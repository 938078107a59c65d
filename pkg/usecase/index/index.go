// Package index embeds transcript chunks and stores them in the vector
// index, deduplicating per source video.
package index

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/tuned-app/tuned/pkg/adapter"
	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/repository"
	"github.com/tuned-app/tuned/pkg/utils/logging"
)

// UseCase provides the write and query paths of the vector index.
type UseCase struct {
	repo   repository.Repository
	gemini adapter.Gemini

	// Serializes the check-then-write sequence so concurrent ingestion of
	// the same video does not re-embed. The lock deliberately spans the
	// embedding calls: released earlier, a second batch with the same video
	// id would pass the existence check before the first batch's write
	// lands and embed the same chunks again. Concurrent queries are
	// unaffected.
	indexMu sync.Mutex
}

// New creates an index UseCase.
func New(repo repository.Repository, gemini adapter.Gemini) *UseCase {
	return &UseCase{
		repo:   repo,
		gemini: gemini,
	}
}

// Index embeds and persists chunks whose video id is not already indexed.
// A batch made entirely of known video ids is a no-op. If the existence
// lookup itself fails, the whole batch is indexed anyway: duplicate writes
// are tolerable, data loss is not.
func (u *UseCase) Index(ctx context.Context, chunks []*model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	logger := logging.From(ctx)

	u.indexMu.Lock()
	defer u.indexMu.Unlock()

	var candidateIDs []string
	seen := map[string]bool{}
	for _, chunk := range chunks {
		id := chunk.Metadata.VideoID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		candidateIDs = append(candidateIDs, id)
	}

	newIDs := seen
	if len(candidateIDs) > 0 {
		existing, err := u.repo.ExistingVideoIDs(ctx, candidateIDs)
		if err != nil {
			logger.Warn("dedup lookup failed, indexing whole batch", "error", err)
		} else {
			newIDs = map[string]bool{}
			for _, id := range candidateIDs {
				if !existing[id] {
					newIDs[id] = true
				}
			}
			if len(newIDs) == 0 {
				logger.Info("all videos in batch already indexed, skipping", "videos", len(candidateIDs))
				return nil
			}
		}
	} else {
		logger.Warn("chunks carry no video id, indexing without deduplication")
	}

	toIndex := make([]*model.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		id := chunk.Metadata.VideoID
		if id != "" && !newIDs[id] {
			continue
		}
		toIndex = append(toIndex, chunk)
	}
	if len(toIndex) == 0 {
		return nil
	}

	entries := make([]*model.IndexEntry, 0, len(toIndex))
	for _, chunk := range toIndex {
		embedding, err := u.gemini.Embedding(ctx, chunk.Text)
		if err != nil {
			return goerr.Wrap(err, "failed to embed chunk", goerr.V("video_id", chunk.Metadata.VideoID), goerr.V("start_time", chunk.Metadata.StartTime))
		}
		entries = append(entries, &model.IndexEntry{
			Chunk:     *chunk,
			Embedding: embedding,
		})
	}

	if err := u.repo.PutChunks(ctx, entries); err != nil {
		return goerr.Wrap(err, "failed to store chunks")
	}

	// Record video summaries so the next batch with these ids is a no-op.
	counts := map[string]int{}
	for _, chunk := range toIndex {
		counts[chunk.Metadata.VideoID]++
	}
	for _, chunk := range toIndex {
		id := chunk.Metadata.VideoID
		if id == "" || counts[id] == 0 {
			continue
		}
		video := &model.Video{
			VideoID:    id,
			Title:      chunk.Metadata.VideoTitle,
			URL:        chunk.Metadata.URL,
			ChunkCount: counts[id],
		}
		counts[id] = 0
		if err := u.repo.PutVideo(ctx, video); err != nil {
			return goerr.Wrap(err, "failed to record video", goerr.V("video_id", id))
		}
	}

	logger.Info("indexed chunks", "chunks", len(entries), "videos", len(newIDs))
	return nil
}

// Search embeds the query text and returns up to k nearest chunks, most
// similar first. Zero matches is an empty result, not an error.
func (u *UseCase) Search(ctx context.Context, text string, k int) ([]*model.ScoredChunk, error) {
	embedding, err := u.gemini.Embedding(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	results, err := u.repo.SearchSimilarChunks(ctx, embedding, k)
	if err != nil {
		return nil, goerr.Wrap(err, "vector search failed")
	}
	return results, nil
}

// Videos lists all indexed videos.
func (u *UseCase) Videos(ctx context.Context) ([]*model.Video, error) {
	return u.repo.ListVideos(ctx)
}
