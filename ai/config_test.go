package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.SummarizerHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.QAHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.SummarizerModel)
	assert.Equal(t, "qwen2.5:3b", cfg.QAModel)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.SummarizerHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.SummarizerHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.QAHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithSummarizerHost("http://summarize:9090/v1"),
			WithQAHost("http://qa:9191/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://summarize:9090/v1", cfg.SummarizerHost)
		assert.Equal(t, "http://qa:9191/v1", cfg.QAHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("text-embedding-3-small"),
			WithSummarizerModel("gpt-4o-mini"),
			WithQAModel("gpt-4o"),
		)

		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.SummarizerModel)
		assert.Equal(t, "gpt-4o", cfg.QAModel)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://custom:8080/v1"),
			WithEmbeddingModel("custom-embed"),
			WithSummarizerModel("custom-summarize"),
		)

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.SummarizerHost)
		assert.Equal(t, "custom-embed", cfg.EmbeddingModel)
		assert.Equal(t, "custom-summarize", cfg.SummarizerModel)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"already has /v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"missing /v1", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"empty host", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host, SummarizerHost: tt.host, QAHost: tt.host}
			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, tt.expected, cfg.SummarizerHost)
			assert.Equal(t, tt.expected, cfg.QAHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			EmbeddingHost:   "http://localhost:11434",
			SummarizerHost:  "http://localhost:11434",
			QAHost:          "http://localhost:11434",
			EmbeddingModel:  "embeddinggemma",
			SummarizerModel: "qwen2.5:3b",
			QAModel:         "qwen2.5:3b",
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		err := cfg.Validate()
		assert.NoError(t, err)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingHost = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing summarizer host", func(t *testing.T) {
		cfg := valid()
		cfg.SummarizerHost = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SummarizerHost")
	})

	t.Run("missing qa host", func(t *testing.T) {
		cfg := valid()
		cfg.QAHost = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "QAHost")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingModel = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("missing summarizer model", func(t *testing.T) {
		cfg := valid()
		cfg.SummarizerModel = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SummarizerModel")
	})

	t.Run("missing qa model", func(t *testing.T) {
		cfg := valid()
		cfg.QAModel = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "QAModel")
	})
}

func TestConfigOptions(t *testing.T) {
	t.Run("WithEmbeddingHost", func(t *testing.T) {
		cfg := &Config{}
		WithEmbeddingHost("http://test:8080/v1")(cfg)
		assert.Equal(t, "http://test:8080/v1", cfg.EmbeddingHost)
	})

	t.Run("WithHost sets all three", func(t *testing.T) {
		cfg := &Config{}
		WithHost("http://test:8080/v1")(cfg)
		assert.Equal(t, "http://test:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://test:8080/v1", cfg.SummarizerHost)
		assert.Equal(t, "http://test:8080/v1", cfg.QAHost)
	})

	t.Run("WithEmbeddingModel", func(t *testing.T) {
		cfg := &Config{}
		WithEmbeddingModel("test-model")(cfg)
		assert.Equal(t, "test-model", cfg.EmbeddingModel)
	})
}

func TestConfigValidate_Integration(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Validate()
	require.NoError(t, err)

	cfg = DefaultConfig()
	err = cfg.Validate()
	require.NoError(t, err)
}
