package repository_test

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"

	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	return repo
}

// testVideoID returns a fresh 11-character id so runs do not collide.
func testVideoID() string {
	return uuid.NewString()[:11]
}

func entryFor(videoID, text string, startTime int, embedding []float32) *model.IndexEntry {
	return &model.IndexEntry{
		Chunk: model.Chunk{
			Text: text,
			Metadata: model.ChunkMetadata{
				VideoID:    videoID,
				VideoTitle: "Video " + videoID,
				StartTime:  startTime,
				URL:        model.WatchURL(videoID),
			},
		},
		Embedding: embedding,
	}
}

// embeddingNear returns a 768-dim vector with all components close to base.
func embeddingNear(rng *rand.Rand, base float32) []float32 {
	vec := make([]float32, 768)
	for i := range vec {
		vec[i] = base + float32(rng.Float64()*0.02-0.01)
	}
	return vec
}

func TestFirestorePutAndSearchChunks(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	videoID := testVideoID()
	entries := []*model.IndexEntry{
		entryFor(videoID, "elephants have trunks", 0, embeddingNear(rng, 0.5)),
		entryFor(videoID, "trunks are strong", 42, embeddingNear(rng, 0.5)),
		entryFor(videoID, "giraffes have long necks", 90, embeddingNear(rng, 0.9)),
	}

	gt.NoError(t, repo.PutChunks(ctx, entries))

	// Wait a bit for Firestore to index
	time.Sleep(2 * time.Second)

	results, err := repo.SearchSimilarChunks(ctx, embeddingNear(rng, 0.5), 2)
	gt.NoError(t, err)
	gt.A(t, results).Longer(0)
	if len(results) > 2 {
		t.Errorf("expected at most 2 results, got %d", len(results))
	}

	// Scores are similarities: descending, most relevant first.
	for i := 0; i < len(results)-1; i++ {
		if results[i].Score < results[i+1].Score {
			t.Errorf("results not ordered by similarity: [%d]=%v < [%d]=%v",
				i, results[i].Score, i+1, results[i+1].Score)
		}
	}

	// Metadata round-trips through the flat document fields, including the
	// integer start_time.
	found := false
	for _, r := range results {
		if r.Chunk.Metadata.VideoID != videoID {
			continue
		}
		found = true
		gt.Equal(t, r.Chunk.Metadata.VideoTitle, "Video "+videoID)
		gt.Equal(t, r.Chunk.Metadata.URL, model.WatchURL(videoID))
		if r.Chunk.Text == "trunks are strong" {
			gt.Equal(t, r.Chunk.Metadata.StartTime, 42)
		}
	}
	gt.True(t, found)
}

func TestFirestoreExistingVideoIDs(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	knownID := testVideoID()
	unknownID := testVideoID()

	gt.NoError(t, repo.PutVideo(ctx, &model.Video{
		VideoID:    knownID,
		Title:      "Known video",
		URL:        model.WatchURL(knownID),
		ChunkCount: 3,
	}))

	existing, err := repo.ExistingVideoIDs(ctx, []string{knownID, unknownID})
	gt.NoError(t, err)
	gt.True(t, existing[knownID])
	gt.False(t, existing[unknownID])
}

func TestFirestoreListVideos(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	videoID := testVideoID()
	gt.NoError(t, repo.PutVideo(ctx, &model.Video{
		VideoID:    videoID,
		Title:      "Listed video",
		URL:        model.WatchURL(videoID),
		ChunkCount: 7,
	}))

	videos, err := repo.ListVideos(ctx)
	gt.NoError(t, err)
	gt.A(t, videos).Longer(0)

	found := false
	for _, v := range videos {
		if v.VideoID != videoID {
			continue
		}
		found = true
		gt.Equal(t, v.Title, "Listed video")
		gt.Equal(t, v.ChunkCount, 7)
		gt.Equal(t, v.URL, model.WatchURL(videoID))
	}
	gt.True(t, found)
}

func TestFirestoreSearchSimilarChunksLimit(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	videoID := testVideoID()
	var entries []*model.IndexEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, entryFor(videoID, "chunk", i*10, embeddingNear(rng, float32(i)/10.0)))
	}
	gt.NoError(t, repo.PutChunks(ctx, entries))

	// Wait for indexing
	time.Sleep(2 * time.Second)

	results, err := repo.SearchSimilarChunks(ctx, embeddingNear(rng, 0.1), 1)
	gt.NoError(t, err)
	if len(results) > 1 {
		t.Errorf("expected at most 1 result, got %d", len(results))
	}
}
