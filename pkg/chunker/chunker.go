// Package chunker groups ordered transcript segments into overlapping,
// word-budgeted chunks. Each chunk keeps the start time of its first
// segment so answers can cite the exact moment in the video.
package chunker

import (
	"math"
	"strings"

	"github.com/tuned-app/tuned/pkg/model"
)

const (
	defaultTargetWords  = 400
	defaultOverlapWords = 50
)

type config struct {
	targetWords  int
	overlapWords int
}

// Option adjusts chunking parameters.
type Option func(*config)

// WithTargetWords sets the approximate word budget per chunk.
func WithTargetWords(n int) Option {
	return func(c *config) {
		c.targetWords = n
	}
}

// WithOverlapWords sets the approximate number of words re-included from
// the tail of a chunk at the head of the next one.
func WithOverlapWords(n int) Option {
	return func(c *config) {
		c.overlapWords = n
	}
}

// Build converts a transcript into retrieval chunks. Segments whose
// trimmed text is empty are skipped entirely. A transcript with no usable
// segments yields an empty slice, never an error.
func Build(transcript *model.TranscriptResult, opts ...Option) []*model.Chunk {
	cfg := config{
		targetWords:  defaultTargetWords,
		overlapWords: defaultOverlapWords,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	segments := usableSegments(transcript.Segments)
	if len(segments) == 0 {
		return nil
	}

	meta := model.ChunkMetadata{
		VideoID:    transcript.VideoID,
		VideoTitle: transcript.TitleOrDefault(),
		URL:        transcript.URL,
	}

	var chunks []*model.Chunk
	for i := 0; i < len(segments); {
		j := i
		words := 0
		for j < len(segments) && words < cfg.targetWords {
			words += wordCount(segments[j].Text)
			j++
		}
		if j == i {
			// targetWords of 0 still consumes one segment per chunk.
			j = i + 1
		}

		window := segments[i:j]
		texts := make([]string, len(window))
		for k, seg := range window {
			texts[k] = strings.TrimSpace(seg.Text)
		}

		chunkMeta := meta
		chunkMeta.StartTime = int(math.Floor(window[0].Start))
		chunks = append(chunks, &model.Chunk{
			Text:     strings.Join(texts, " "),
			Metadata: chunkMeta,
		})

		// Walk backward until the tail covers the overlap budget; the next
		// chunk starts there. If the overlap swallowed the whole window,
		// advance anyway so the loop always makes forward progress.
		overlap := 0
		k := len(window) - 1
		for k >= 0 && overlap < cfg.overlapWords {
			overlap += wordCount(window[k].Text)
			k--
		}
		k++
		if k > 0 {
			i += k
		} else {
			i += max(len(window)-1, 1)
		}
	}

	return chunks
}

func usableSegments(segments []model.TranscriptSegment) []model.TranscriptSegment {
	usable := make([]model.TranscriptSegment, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		usable = append(usable, seg)
	}
	return usable
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
