package adapter

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tuned-app/tuned/pkg/model"
)

// Transcriber turns an audio file into ordered, timestamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]model.TranscriptSegment, error)
}

type whisperClient struct {
	client *openai.Client
}

// NewWhisper creates a Transcriber backed by the OpenAI Whisper API.
// An empty API key is a configuration error, reported before any call.
func NewWhisper(apiKey string) (Transcriber, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, goerr.Wrap(model.ErrNoCredential, "OPENAI_API_KEY is not set")
	}
	return &whisperClient{
		client: openai.NewClient(apiKey),
	}, nil
}

func (w *whisperClient) Transcribe(ctx context.Context, audioPath string) ([]model.TranscriptSegment, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, goerr.Wrap(model.ErrUpstream, "whisper transcription failed", goerr.V("cause", err.Error()))
	}

	segments := make([]model.TranscriptSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		duration := seg.End - seg.Start
		if duration < 0 {
			duration = 0
		}
		segments = append(segments, model.TranscriptSegment{
			Text:     text,
			Start:    seg.Start,
			Duration: duration,
		})
	}
	return segments, nil
}
