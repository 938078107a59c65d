package adapter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/m-mizutani/goerr/v2"

	"github.com/tuned-app/tuned/pkg/model"
)

// VideoSource resolves video metadata and downloads an audio-only stream
// suitable for transcription.
type VideoSource interface {
	// Title returns the video title, or "Untitled video" when the metadata
	// lookup fails. Title failures are not fatal to ingestion.
	Title(ctx context.Context, videoID string) string

	// DownloadAudio writes the best available audio stream under dir and
	// returns the file path. The caller removes the file when done.
	DownloadAudio(ctx context.Context, videoID, dir string) (string, error)
}

type youtubeSource struct {
	client youtube.Client
}

// NewYouTube creates a VideoSource backed by youtube.com.
func NewYouTube() VideoSource {
	return &youtubeSource{}
}

func (y *youtubeSource) Title(ctx context.Context, videoID string) string {
	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil || strings.TrimSpace(video.Title) == "" {
		return "Untitled video"
	}
	return video.Title
}

func (y *youtubeSource) DownloadAudio(ctx context.Context, videoID, dir string) (string, error) {
	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", goerr.Wrap(model.ErrUpstream, "failed to resolve video", goerr.V("video_id", videoID), goerr.V("cause", err.Error()))
	}

	format := pickAudioFormat(video.Formats)
	if format == nil {
		return "", goerr.Wrap(model.ErrUpstream, "video has no audio stream", goerr.V("video_id", videoID))
	}

	stream, _, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", goerr.Wrap(model.ErrUpstream, "failed to open audio stream", goerr.V("video_id", videoID), goerr.V("cause", err.Error()))
	}
	defer stream.Close()

	path := filepath.Join(dir, videoID+audioExt(format.MimeType))
	file, err := os.Create(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create audio file", goerr.V("path", path))
	}
	defer file.Close()

	if _, err := io.Copy(file, stream); err != nil {
		os.Remove(path)
		return "", goerr.Wrap(model.ErrUpstream, "failed to download audio", goerr.V("video_id", videoID), goerr.V("cause", err.Error()))
	}
	return path, nil
}

// pickAudioFormat prefers audio-only streams, highest bitrate first.
func pickAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

func audioExt(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/mp4"):
		return ".m4a"
	case strings.HasPrefix(mimeType, "audio/webm"):
		return ".webm"
	default:
		return ".audio"
	}
}
