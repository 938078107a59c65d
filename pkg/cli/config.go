package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/tuned-app/tuned/pkg/adapter"
	"github.com/tuned-app/tuned/pkg/cache"
	"github.com/tuned-app/tuned/pkg/memory"
	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/repository"
	"github.com/tuned-app/tuned/pkg/utils/logging"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Adapters
	geminiLocation  string
	generativeModel string
	embeddingModel  string
	openaiAPIKey    string

	// Transcript cache
	cacheDir    string
	cacheBucket string

	// Session memory
	redisAddr string

	logLevel   string
	configPath string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("TUNED_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file for chunking and model defaults",
			Sources:     cli.EnvVars("TUNED_CONFIG"),
			Destination: &cfg.configPath,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "generative-model",
			Usage:       "Gemini model for answer generation",
			Sources:     cli.EnvVars("TUNED_GENERATIVE_MODEL"),
			Destination: &cfg.generativeModel,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Gemini model for embeddings",
			Sources:     cli.EnvVars("TUNED_EMBEDDING_MODEL"),
			Destination: &cfg.embeddingModel,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key for Whisper transcription",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &cfg.openaiAPIKey,
		},
	}
}

// cacheFlags returns flags for the transcript cache backend
func cacheFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cache-dir",
			Usage:       "Local directory for cached transcripts",
			Sources:     cli.EnvVars("TUNED_CACHE_DIR"),
			Destination: &cfg.cacheDir,
		},
		&cli.StringFlag{
			Name:        "cache-bucket",
			Usage:       "Cloud Storage bucket for cached transcripts (overrides cache-dir)",
			Sources:     cli.EnvVars("TUNED_CACHE_BUCKET"),
			Destination: &cfg.cacheBucket,
		},
	}
}

// sessionFlags returns flags for session memory
func sessionFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address for persistent session memory (host:port)",
			Sources:     cli.EnvVars("REDIS_ADDR"),
			Destination: &cfg.redisAddr,
		},
	}
}

// setupContext installs a logger at the configured level and returns the
// context carrying it. Commands call this first.
func (cfg *config) setupContext(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates a Firestore-backed repository. The caller must
// invoke the returned closer.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, func(), error) {
	if cfg.project == "" {
		return nil, nil, goerr.Wrap(model.ErrNoCredential, model.MissingProjectMessage)
	}
	if cfg.database == "" {
		return nil, nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create repository")
	}
	closer := func() {
		if err := repo.Close(); err != nil {
			logging.From(ctx).Warn("failed to close repository", "error", err)
		}
	}
	return repo, closer, nil
}

// newGemini creates a Gemini adapter, or returns nil when no Google Cloud
// project is configured. Callers decide whether nil is fatal.
func (cfg *config) newGemini(ctx context.Context, file *fileConfig) (adapter.Gemini, error) {
	if cfg.project == "" {
		return nil, nil
	}

	var opts []adapter.GeminiOption
	if m := cfg.resolveGenerativeModel(file); m != "" {
		opts = append(opts, adapter.WithGenerativeModel(m))
	}
	if m := cfg.resolveEmbeddingModel(file); m != "" {
		opts = append(opts, adapter.WithEmbeddingModel(m))
	}

	gemini, err := adapter.NewGemini(ctx, cfg.project, cfg.geminiLocation, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini adapter")
	}
	return gemini, nil
}

// newWhisper creates the Whisper transcriber from the OpenAI API key.
func (cfg *config) newWhisper() (adapter.Transcriber, error) {
	return adapter.NewWhisper(cfg.openaiAPIKey)
}

// newCache creates the transcript cache, backed by Cloud Storage when a
// bucket is configured and a local directory otherwise.
func (cfg *config) newCache(ctx context.Context) (*cache.TranscriptCache, error) {
	if cfg.cacheBucket != "" {
		storage, err := adapter.NewStorage(ctx, cfg.cacheBucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create cache storage", goerr.V("bucket", cfg.cacheBucket))
		}
		return cache.New(storage), nil
	}

	dir := cfg.cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "tuned", "transcripts")
	}

	storage, err := adapter.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return cache.New(storage), nil
}

// newMemoryStore creates the session memory store. Redis keeps sessions
// across process restarts; without it, memory lives only for the process.
func (cfg *config) newMemoryStore() memory.Store {
	if cfg.redisAddr != "" {
		return memory.NewRedis(cfg.redisAddr)
	}
	return memory.New()
}
