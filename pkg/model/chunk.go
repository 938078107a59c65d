package model

import (
	"fmt"

	"cloud.google.com/go/firestore"
)

// ChunkMetadata carries the citation anchor for a chunk. StartTime is the
// floored start of the first segment that contributed to the chunk.
type ChunkMetadata struct {
	VideoID    string `json:"video_id" firestore:"video_id"`
	VideoTitle string `json:"video_title" firestore:"video_title"`
	StartTime  int    `json:"start_time" firestore:"start_time"`
	URL        string `json:"url" firestore:"url"`
}

// Chunk is a merged run of transcript segments sized to a word budget, the
// unit of retrieval. Chunks are immutable; ownership moves to the index
// store once indexed.
type Chunk struct {
	Text     string        `json:"text" firestore:"text"`
	Metadata ChunkMetadata `json:"metadata" firestore:"metadata"`
}

// CitationURL returns the deep link used in markdown timestamp citations.
func (c *Chunk) CitationURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%d", c.Metadata.VideoID, c.Metadata.StartTime)
}

// IndexEntry is a chunk plus its embedding vector, owned by the index
// store once written.
type IndexEntry struct {
	Chunk     Chunk              `firestore:"chunk"`
	Embedding firestore.Vector32 `firestore:"embedding"`
}

// ScoredChunk is a retrieval result with its similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Video summarizes one indexed video for listing and deduplication.
type Video struct {
	VideoID    string `firestore:"video_id"`
	Title      string `firestore:"title"`
	URL        string `firestore:"url"`
	ChunkCount int    `firestore:"chunk_count"`
}
