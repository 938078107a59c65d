// Package answer composes grounded answers: retrieve relevant transcript
// chunks, combine them with recent conversation history, and delegate the
// final prose to Gemini with citation instructions.
package answer

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tuned-app/tuned/pkg/adapter"
	"github.com/tuned-app/tuned/pkg/memory"
	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/usecase/index"
	"github.com/tuned-app/tuned/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPromptRaw string

const (
	// retrievalK is how many chunks are retrieved per question.
	retrievalK = 4

	msgEmptyQuestion = "Please enter a question."
	msgNoChunks      = "No relevant transcript chunks were retrieved."
)

// UseCase composes answers from the vector index and session memory.
type UseCase struct {
	store  memory.Store
	index  *index.UseCase
	gemini adapter.Gemini
}

// New creates an answer UseCase. A nil gemini means no credential was
// configured; Ask then short-circuits with a fixed message.
func New(store memory.Store, idx *index.UseCase, gemini adapter.Gemini) *UseCase {
	return &UseCase{
		store:  store,
		index:  idx,
		gemini: gemini,
	}
}

// Ask answers a question against all indexed videos for the given session.
// It never returns an error: retrieval and generation failures are folded
// into the answer text with Grounded=false, and only successful turns are
// persisted to session memory.
func (u *UseCase) Ask(ctx context.Context, question string, sessionID model.SessionID) *model.Answer {
	logger := logging.From(ctx)

	q := strings.TrimSpace(question)
	if q == "" {
		return &model.Answer{Text: msgEmptyQuestion}
	}
	if u.gemini == nil {
		return &model.Answer{Text: model.MissingProjectMessage}
	}

	history, err := u.store.Read(ctx, sessionID)
	if err != nil {
		logger.Error("failed to read session history", "session_id", sessionID, "error", err)
		return failureAnswer(err)
	}

	// Retrieval uses the raw question; history shapes only the prose.
	results, err := u.index.Search(ctx, q, retrievalK)
	if err != nil {
		logger.Error("retrieval failed", "error", err)
		return failureAnswer(err)
	}

	userPrompt := fmt.Sprintf("CHAT HISTORY:\n%s\n\nQUESTION:\n%s\n\nCONTEXT:\n%s\n\nAnswer:",
		formatHistory(history), q, formatContext(results))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPromptRaw, ""),
	}
	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}

	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logger.Error("generation failed", "error", err)
		return failureAnswer(err)
	}

	text := responseText(resp)
	if text == "" {
		logger.Error("generation returned no text")
		return failureAnswer(fmt.Errorf("model returned an empty response"))
	}

	if err := u.store.Append(ctx, sessionID, q, text); err != nil {
		// The answer is still usable; losing one turn of memory is not.
		logger.Warn("failed to persist exchange", "session_id", sessionID, "error", err)
	}

	return &model.Answer{Text: text, Grounded: true}
}

func failureAnswer(err error) *model.Answer {
	return &model.Answer{
		Text: fmt.Sprintf("Sorry, I ran into an error while answering that. (%v)", err),
	}
}

// formatHistory renders the last exchanges as alternating turns.
func formatHistory(history []model.Exchange) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history)*2)
	for _, ex := range history {
		lines = append(lines, "Human: "+ex.Question)
		lines = append(lines, "Assistant: "+ex.Answer)
	}
	return strings.Join(lines, "\n")
}

// formatContext renders retrieved chunks as labeled blocks carrying the
// citation metadata the model needs to emit timestamp links.
func formatContext(results []*model.ScoredChunk) string {
	if len(results) == 0 {
		return msgNoChunks
	}

	var parts []string
	for i, result := range results {
		md := result.Chunk.Metadata
		header := fmt.Sprintf("[Chunk %d] video_title=%q video_id=%q start_time=%d (%s) link=%s",
			i+1, md.VideoTitle, md.VideoID, md.StartTime,
			model.FormatTimestamp(md.StartTime), result.Chunk.CitationURL())
		parts = append(parts, header, strings.TrimSpace(result.Chunk.Text))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
