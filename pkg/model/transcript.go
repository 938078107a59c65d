package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// TranscriptSegment is one timestamped span of transcribed speech.
type TranscriptSegment struct {
	Text     string  `json:"text" firestore:"text"`
	Start    float64 `json:"start" firestore:"start"`
	Duration float64 `json:"duration" firestore:"duration"`
}

// TranscriptResult is the normalized transcript of one video. It is created
// once per ingestion, cached, and read-only afterwards.
type TranscriptResult struct {
	VideoID  string              `json:"video_id"`
	Title    string              `json:"title"`
	URL      string              `json:"url"`
	Segments []TranscriptSegment `json:"segments"`
	Source   string              `json:"source"`
}

// Validate checks the result once at the ingestion boundary. Downstream
// code never re-validates.
func (r *TranscriptResult) Validate() error {
	if !validVideoID(r.VideoID) {
		return goerr.Wrap(ErrInvalidInput, "transcript has no valid video id", goerr.V("video_id", r.VideoID))
	}
	for _, seg := range r.Segments {
		if strings.TrimSpace(seg.Text) != "" {
			return nil
		}
	}
	return goerr.Wrap(ErrEmptyTranscript, "no segment has usable text", goerr.V("video_id", r.VideoID), goerr.V("segments", len(r.Segments)))
}

// TitleOrDefault returns the video title, or a placeholder when the
// metadata fetch could not determine one.
func (r *TranscriptResult) TitleOrDefault() string {
	if strings.TrimSpace(r.Title) == "" {
		return "Untitled video"
	}
	return r.Title
}
