package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tuned-app/tuned/pkg/model"
)

const (
	chunkCollection = "chunks"
	videoCollection = "videos"
)

// Firestore implements Repository on Cloud Firestore. Chunks live in one
// collection with a vector field; video summaries live in a second
// collection keyed by video id, which also serves the dedup lookup.
type Firestore struct {
	client *firestore.Client
}

// New creates a Firestore-backed repository.
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is required")
	}
	if databaseID == "" {
		return nil, goerr.New("database ID is required")
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying Firestore client.
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) ExistingVideoIDs(ctx context.Context, videoIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(videoIDs))
	for _, id := range videoIDs {
		_, err := r.client.Collection(videoCollection).Doc(id).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				continue
			}
			return nil, goerr.Wrap(err, "failed to look up video", goerr.V("video_id", id))
		}
		existing[id] = true
	}
	return existing, nil
}

func (r *Firestore) PutChunks(ctx context.Context, entries []*model.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	writer := r.client.BulkWriter(ctx)
	for _, entry := range entries {
		doc := r.client.Collection(chunkCollection).NewDoc()
		if _, err := writer.Create(doc, map[string]any{
			"text":        entry.Chunk.Text,
			"video_id":    entry.Chunk.Metadata.VideoID,
			"video_title": entry.Chunk.Metadata.VideoTitle,
			"start_time":  entry.Chunk.Metadata.StartTime,
			"url":         entry.Chunk.Metadata.URL,
			"embedding":   entry.Embedding,
		}); err != nil {
			return goerr.Wrap(err, "failed to queue chunk write", goerr.V("video_id", entry.Chunk.Metadata.VideoID))
		}
	}
	writer.End()
	return nil
}

func (r *Firestore) PutVideo(ctx context.Context, video *model.Video) error {
	if _, err := r.client.Collection(videoCollection).Doc(video.VideoID).Set(ctx, video); err != nil {
		return goerr.Wrap(err, "failed to save video", goerr.V("video_id", video.VideoID))
	}
	return nil
}

func (r *Firestore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	iter := r.client.Collection(videoCollection).OrderBy("video_id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var videos []*model.Video
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list videos")
		}

		var video model.Video
		if err := doc.DataTo(&video); err != nil {
			return nil, goerr.Wrap(err, "failed to decode video", goerr.V("doc", doc.Ref.ID))
		}
		videos = append(videos, &video)
	}
	return videos, nil
}

func (r *Firestore) SearchSimilarChunks(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	query := r.client.Collection(chunkCollection).FindNearest(
		"embedding",
		firestore.Vector32(embedding),
		limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{
			DistanceResultField: "distance",
		},
	)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var results []*model.ScoredChunk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search chunks")
		}

		data := doc.Data()
		chunk := model.Chunk{
			Text: asString(data["text"]),
			Metadata: model.ChunkMetadata{
				VideoID:    asString(data["video_id"]),
				VideoTitle: asString(data["video_title"]),
				StartTime:  int(asInt64(data["start_time"])),
				URL:        asString(data["url"]),
			},
		}

		// Cosine distance is in [0, 2]; report similarity so larger means
		// more relevant.
		score := 0.0
		if d, ok := data["distance"].(float64); ok {
			score = 1.0 - d
		}

		results = append(results, &model.ScoredChunk{
			Chunk: chunk,
			Score: score,
		})
	}
	return results, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	n, _ := v.(int64)
	return n
}
