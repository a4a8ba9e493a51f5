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

// QA implements ai.QA using an OpenAI-compatible chat API.
type QA struct {
	client llms.Model
	logger *slog.Logger
}

func newQA(config *ai.Config) (*QA, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.QAHost),
		openai.WithToken("none"),
		openai.WithModel(config.QAModel),
	)
	if err != nil {
		return nil, err
	}

	return &QA{
		client: client,
		logger: slog.Default().With("component", "langchain-qa"),
	}, nil
}

// NewQA creates a new question-answering service using the provided configuration.
//
// Returns ai.QA interface to enforce abstraction.
func NewQA(config *ai.Config) (ai.QA, error) {
	return newQA(config)
}

const answerPromptTemplate = `Answer the question using only the context below. If the context does not contain enough information to answer, say so plainly.

Context:
%s

Question: %s`

// Answer returns the answer to question given the supplied context.
func (q *QA) Answer(ctx context.Context, docContext string, question string) (string, error) {
	q.logger.Debug("answering question", "contextLength", len(docContext))

	prompt := fmt.Sprintf(answerPromptTemplate, docContext, question)
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	response, err := q.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		q.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		q.logger.Warn("QA service returned no choices")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
