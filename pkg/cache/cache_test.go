package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/tuned-app/tuned/pkg/adapter"
	"github.com/tuned-app/tuned/pkg/cache"
	"github.com/tuned-app/tuned/pkg/model"
)

func testCache(t *testing.T) (*cache.TranscriptCache, string) {
	dir := t.TempDir()
	storage, err := adapter.NewLocalStorage(dir)
	gt.NoError(t, err)
	return cache.New(storage), dir
}

func testResult() *model.TranscriptResult {
	return &model.TranscriptResult{
		VideoID: "jNQXAC9IVRw",
		Title:   "Me at the zoo",
		URL:     model.WatchURL("jNQXAC9IVRw"),
		Segments: []model.TranscriptSegment{
			{Text: "alright so here we are", Start: 0, Duration: 3.2},
			{Text: "in front of the elephants", Start: 3.2, Duration: 2.8},
		},
		Source: "whisper",
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := testCache(t)

	gt.NoError(t, c.Put(ctx, testResult()))

	got, ok := c.Get(ctx, "jNQXAC9IVRw")
	gt.True(t, ok)
	gt.Equal(t, got.Title, "Me at the zoo")
	gt.A(t, got.Segments).Length(2)
	gt.Equal(t, got.Segments[1].Start, 3.2)
}

func TestMissOnUnknownVideo(t *testing.T) {
	ctx := context.Background()
	c, _ := testCache(t)

	_, ok := c.Get(ctx, "aaaaaaaaaaa")
	gt.False(t, ok)
}

func TestCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, dir := testCache(t)

	path := filepath.Join(dir, "jNQXAC9IVRw_transcript.json")
	gt.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok := c.Get(ctx, "jNQXAC9IVRw")
	gt.False(t, ok)

	// A fresh Put recovers the entry.
	gt.NoError(t, c.Put(ctx, testResult()))
	_, ok = c.Get(ctx, "jNQXAC9IVRw")
	gt.True(t, ok)
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	c, dir := testCache(t)

	// Valid JSON, wrong shape: no segments.
	path := filepath.Join(dir, "jNQXAC9IVRw_transcript.json")
	gt.NoError(t, os.WriteFile(path, []byte(`{"video_id":"jNQXAC9IVRw","title":"x"}`), 0o644))

	_, ok := c.Get(ctx, "jNQXAC9IVRw")
	gt.False(t, ok)
}
