package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the default target chunk size in whitespace tokens.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default overlap between adjacent chunks, in tokens.
const DefaultChunkOverlap = 50

// sentenceBoundaryTolerance is the fraction of chunk_size within which a
// sentence terminator is preferred over a plain whitespace split.
const sentenceBoundaryTolerance = 0.15

var sentenceSplitter = regexp.MustCompile(`[^.!?]+[.!?]+(?:\s+|$)|[^.!?]+$`)

// Chunk is one sentence-aligned window of a document, tagged with the
// metadata extracted from its parent document.
type Chunk struct {
	DocumentIndex int
	ChunkIndex    int
	Text          string
	Metadata      DocumentMetadata
}

// ChunkDocuments splits every document into overlapping chunks using
// chunkSize/chunkOverlap whitespace tokens, attaching each document's own
// extracted metadata (or the caller-supplied override) to all of its chunks.
//
// A document's own metadata override, when non-nil, takes precedence over
// regex extraction (§6: "document metadata, if present, overrides
// regex-extracted values").
func ChunkDocuments(documents []string, overrides []*DocumentMetadata, chunkSize, chunkOverlap int) []Chunk {
	var chunks []Chunk
	for docIdx, doc := range documents {
		meta := ExtractMetadata(doc)
		if overrides != nil && docIdx < len(overrides) && overrides[docIdx] != nil {
			meta = mergeOverride(meta, *overrides[docIdx])
		}

		for chunkIdx, text := range splitDocument(doc, chunkSize, chunkOverlap) {
			chunks = append(chunks, Chunk{
				DocumentIndex: docIdx,
				ChunkIndex:    chunkIdx,
				Text:          text,
				Metadata:      meta,
			})
		}
	}
	return chunks
}

func mergeOverride(extracted, override DocumentMetadata) DocumentMetadata {
	if override.Sector != "" {
		extracted.Sector = override.Sector
	}
	if override.Company != "" {
		extracted.Company = override.Company
	}
	if override.Year != "" {
		extracted.Year = override.Year
	}
	return extracted
}

// splitDocument breaks document text into sentence-aligned, overlapping
// windows of approximately chunkSize whitespace tokens. Empty or
// whitespace-only documents produce no chunks.
func splitDocument(document string, chunkSize, chunkOverlap int) []string {
	if strings.TrimSpace(document) == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}

	sentences := splitSentences(document)
	tokens := make([][]string, len(sentences))
	for i, s := range sentences {
		tokens[i] = strings.Fields(s)
	}

	var chunks []string
	start := 0
	for start < len(sentences) {
		end := start
		count := 0
		lastGoodEnd := -1
		for end < len(sentences) {
			count += len(tokens[end])
			end++
			if count >= chunkSize {
				lastGoodEnd = end
				break
			}
		}
		if lastGoodEnd == -1 {
			// Ran out of sentences before reaching chunk_size; take the rest.
			end = len(sentences)
		} else {
			end = preferSentenceBoundary(tokens, start, lastGoodEnd, chunkSize)
		}

		chunks = append(chunks, strings.TrimSpace(strings.Join(sentences[start:end], " ")))

		if end >= len(sentences) {
			break
		}

		// Advance by overlap measured in tokens, never re-splitting a sentence.
		newStart := end
		overlapTokens := 0
		for newStart > start && overlapTokens < chunkOverlap {
			newStart--
			overlapTokens += len(tokens[newStart])
		}
		if newStart <= start {
			newStart = start + 1
		}
		start = newStart
	}
	return chunks
}

// preferSentenceBoundary nudges end to the sentence boundary closest to
// chunkSize tokens within ±15% of chunkSize, if one is closer than end;
// otherwise it keeps end, the first sentence boundary at or past
// chunkSize. Chunks always end on a sentence boundary: a sentence longer
// than chunkSize is not split at whitespace.
func preferSentenceBoundary(tokens [][]string, start, end, chunkSize int) int {
	tolerance := int(float64(chunkSize) * sentenceBoundaryTolerance)
	if tolerance < 1 {
		tolerance = 1
	}

	countAt := func(upto int) int {
		n := 0
		for i := start; i < upto; i++ {
			n += len(tokens[i])
		}
		return n
	}

	best := end
	bestDelta := abs(countAt(end) - chunkSize)
	for candidate := end - 1; candidate > start && countAt(candidate) >= chunkSize-tolerance; candidate-- {
		delta := abs(countAt(candidate) - chunkSize)
		if delta < bestDelta {
			best = candidate
			bestDelta = delta
		}
	}
	for candidate := end + 1; candidate <= len(tokens) && countAt(candidate) <= chunkSize+tolerance; candidate++ {
		delta := abs(countAt(candidate) - chunkSize)
		if delta < bestDelta {
			best = candidate
			bestDelta = delta
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func splitSentences(text string) []string {
	return SplitSentences(text)
}

// SplitSentences splits text into trimmed sentence strings using the
// same boundary pattern the chunk splitter uses. Exported so other
// packages (the extractive summary fallback) can split on identical
// boundaries without duplicating the regex.
func SplitSentences(text string) []string {
	matches := sentenceSplitter.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			sentences = append(sentences, m)
		}
	}
	return sentences
}

// IsEmpty reports whether a chunk's text is empty after trimming, the
// condition the tree builder skips at level 0 (§4.3.2).
func IsEmpty(c Chunk) bool {
	return strings.TrimSpace(c.Text) == ""
}
