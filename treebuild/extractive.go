package treebuild

import (
	"strings"

	"github.com/finrag/finrag/chunker"
)

// extractiveSummary implements the deterministic fallback named in
// §4.3.2: the first N sentences, taken across texts in order, whose
// combined whitespace-token count does not exceed maxTokens; the first
// sentence is always kept, even when it alone exceeds maxTokens. Used
// when the external summarizer still returns an error after exhausting
// its retries, or returns an empty summary.
func extractiveSummary(texts []string, maxTokens int) string {
	var sentences []string
	for _, t := range texts {
		sentences = append(sentences, chunker.SplitSentences(t)...)
	}
	if len(sentences) == 0 {
		return ""
	}

	var kept []string
	budget := 0
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if budget > 0 && budget+n > maxTokens {
			break
		}
		kept = append(kept, s)
		budget += n
		if budget >= maxTokens {
			break
		}
	}
	if len(kept) == 0 {
		kept = append(kept, sentences[0])
	}
	return strings.Join(kept, " ")
}
