package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
chunking:
  target_words: 120
  overlap_words: 10
models:
  generative: gemini-2.5-pro
`
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	file, err := loadFileConfig(path)
	gt.NoError(t, err)
	gt.Equal(t, file.Chunking.TargetWords, 120)
	gt.Equal(t, file.Chunking.OverlapWords, 10)
	gt.Equal(t, file.Models.Generative, "gemini-2.5-pro")
	gt.Equal(t, file.Models.Embedding, "")
}

func TestLoadFileConfigEmptyPath(t *testing.T) {
	file, err := loadFileConfig("")
	gt.NoError(t, err)
	gt.Equal(t, file.Chunking.TargetWords, 0)
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	_, err := loadFileConfig("/nonexistent/config.yaml")
	gt.Error(t, err)
}

func TestLoadFileConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	gt.NoError(t, os.WriteFile(path, []byte("chunking: [not: a map"), 0o644))

	_, err := loadFileConfig(path)
	gt.Error(t, err)
}

func TestResolveChunkWords(t *testing.T) {
	// Flag beats file, file beats default.
	gt.Equal(t, resolveChunkWords(120, true, 300, 400), 120)
	gt.Equal(t, resolveChunkWords(400, false, 300, 400), 300)
	gt.Equal(t, resolveChunkWords(400, false, 0, 400), 400)
}

func TestResolveModels(t *testing.T) {
	file := &fileConfig{}
	file.Models.Generative = "from-file"

	cfg := &config{}
	gt.Equal(t, cfg.resolveGenerativeModel(file), "from-file")
	gt.Equal(t, cfg.resolveEmbeddingModel(file), "")

	cfg.generativeModel = "from-flag"
	cfg.embeddingModel = "embed-flag"
	gt.Equal(t, cfg.resolveGenerativeModel(file), "from-flag")
	gt.Equal(t, cfg.resolveEmbeddingModel(file), "embed-flag")
}
