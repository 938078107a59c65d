package cli

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML config file. It supplies defaults for
// chunking and model selection; flags and environment variables win.
type fileConfig struct {
	Chunking struct {
		TargetWords  int `yaml:"target_words"`
		OverlapWords int `yaml:"overlap_words"`
	} `yaml:"chunking"`
	Models struct {
		Generative string `yaml:"generative"`
		Embedding  string `yaml:"embedding"`
	} `yaml:"models"`
}

// loadFileConfig reads the YAML config file. An empty path yields the zero
// config so callers never branch on whether a file was given.
func loadFileConfig(path string) (*fileConfig, error) {
	var file fileConfig
	if path == "" {
		return &file, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return &file, nil
}

func (cfg *config) resolveGenerativeModel(file *fileConfig) string {
	if cfg.generativeModel != "" {
		return cfg.generativeModel
	}
	return file.Models.Generative
}

func (cfg *config) resolveEmbeddingModel(file *fileConfig) string {
	if cfg.embeddingModel != "" {
		return cfg.embeddingModel
	}
	return file.Models.Embedding
}

// resolveChunkWords applies flag > file > default precedence for the
// chunking parameters. flagSet reports whether the flag was given.
func resolveChunkWords(flagValue int64, flagSet bool, fileValue, fallback int) int {
	if flagSet {
		return int(flagValue)
	}
	if fileValue > 0 {
		return fileValue
	}
	return fallback
}
