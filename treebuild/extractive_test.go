package treebuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractiveSummary_RespectsTokenBudget(t *testing.T) {
	texts := []string{"One two three four five. Six seven eight nine ten. Eleven twelve thirteen."}
	summary := extractiveSummary(texts, 10)
	tokens := len(strings.Fields(summary))
	require.NotZero(t, tokens, "expected a non-empty summary")
	assert.LessOrEqual(t, tokens, 10)
}

func TestExtractiveSummary_AlwaysKeepsAtLeastOneSentence(t *testing.T) {
	texts := []string{"This single sentence alone already exceeds the tiny budget given to it."}
	summary := extractiveSummary(texts, 1)
	assert.NotEmpty(t, summary, "expected at least one sentence even when it exceeds the budget")
}

func TestExtractiveSummary_EmptyInput(t *testing.T) {
	assert.Empty(t, extractiveSummary(nil, 100))
}

func TestExtractiveSummary_ConcatenatesAcrossTexts(t *testing.T) {
	texts := []string{"First child summary sentence.", "Second child summary sentence."}
	summary := extractiveSummary(texts, 100)
	assert.Contains(t, summary, "First")
	assert.Contains(t, summary, "Second")
}
