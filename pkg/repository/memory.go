package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/tuned-app/tuned/pkg/model"
)

// Memory implements Repository with an in-process index. Used by tests and
// by local runs without a Firestore project. Retrieval is brute-force
// cosine similarity over all stored entries.
type Memory struct {
	mu      sync.RWMutex
	entries []*model.IndexEntry
	videos  map[string]*model.Video
}

// NewMemory creates an in-process repository.
func NewMemory() *Memory {
	return &Memory{
		videos: make(map[string]*model.Video),
	}
}

func (r *Memory) ExistingVideoIDs(ctx context.Context, videoIDs []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := make(map[string]bool, len(videoIDs))
	for _, id := range videoIDs {
		if _, ok := r.videos[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *Memory) PutChunks(ctx context.Context, entries []*model.IndexEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *Memory) PutVideo(ctx context.Context, video *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[video.VideoID] = video
	return nil
}

func (r *Memory) ListVideos(ctx context.Context) ([]*model.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]*model.Video, 0, len(r.videos))
	for _, v := range r.videos {
		videos = append(videos, v)
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].VideoID < videos[j].VideoID
	})
	return videos, nil
}

func (r *Memory) SearchSimilarChunks(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.ScoredChunk, 0, len(r.entries))
	for _, entry := range r.entries {
		results = append(results, &model.ScoredChunk{
			Chunk: entry.Chunk,
			Score: cosineSimilarity(embedding, entry.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ChunkCount reports the number of stored entries. Test helper.
func (r *Memory) ChunkCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
