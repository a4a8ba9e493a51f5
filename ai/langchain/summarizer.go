package langchain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/finrag/finrag/ai"
)

// Summarizer implements ai.Summarizer using an OpenAI-compatible chat API.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.SummarizerHost),
		openai.WithToken("none"),
		openai.WithModel(config.SummarizerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "langchain-summarizer"),
	}, nil
}

// NewSummarizer creates a new summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

const summarizePromptTemplate = `Summarize the following passages into a single coherent summary of at most %d tokens. Preserve concrete facts, figures and named entities. Do not add commentary about the summarization process.

%s`

// Summarize condenses texts, in order, into a single summary bounded by
// maxTokens.
func (s *Summarizer) Summarize(ctx context.Context, texts []string, maxTokens int) (string, error) {
	s.logger.Debug("summarizing texts", "count", len(texts), "maxTokens", maxTokens)

	body := strings.Join(texts, "\n\n---\n\n")
	prompt := fmt.Sprintf(summarizePromptTemplate, maxTokens, body)

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	response, err := s.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(maxTokens))
	if err != nil {
		s.logger.Error("failed to generate summary", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		s.logger.Warn("summarizer returned no choices")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
