// Package repository persists embedded transcript chunks and answers
// nearest-neighbor queries over them.
package repository

import (
	"context"

	"github.com/tuned-app/tuned/pkg/model"
)

// Repository is the vector index backend. Deduplication is an explicit
// two-phase protocol: ExistingVideoIDs then PutChunks. The phases are not
// atomic; a concurrent ingestion of the same video may write duplicate
// chunks, which is tolerated because embeddings are deterministic.
type Repository interface {
	// ExistingVideoIDs reports which of the candidate video ids already
	// have indexed chunks.
	ExistingVideoIDs(ctx context.Context, videoIDs []string) (map[string]bool, error)

	// PutChunks appends embedded chunks to the index.
	PutChunks(ctx context.Context, entries []*model.IndexEntry) error

	// PutVideo records a video summary for listing.
	PutVideo(ctx context.Context, video *model.Video) error

	// ListVideos returns summaries of all indexed videos.
	ListVideos(ctx context.Context) ([]*model.Video, error)

	// SearchSimilarChunks returns up to limit chunks nearest to the given
	// embedding, most similar first. No error on zero matches.
	SearchSimilarChunks(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error)
}
