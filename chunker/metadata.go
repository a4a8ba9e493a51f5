package chunker

import (
	"regexp"
	"strings"

	"github.com/finrag/finrag/core"
)

var yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// companyPattern matches a run of capitalized words (and ampersands)
// ending in a recognized legal suffix.
var companyPattern = regexp.MustCompile(
	`\b([A-Z][A-Za-z.&]*(?:\s+[A-Z&][A-Za-z.&]*)*\s+(?:(?:Inc|Corp|Corporation|Ltd|LLC|Company|Group|PLC|plc|AG|SA)\b|Co\.))`,
)

// sectorLexicon maps a case-insensitive keyword to its canonical sector.
// Order matters: first match in document order wins.
var sectorLexicon = []struct {
	pattern *regexp.Regexp
	sector  string
}{
	{regexp.MustCompile(`(?i)\btechnology\b`), "technology"},
	{regexp.MustCompile(`(?i)\bsoftware\b`), "technology"},
	{regexp.MustCompile(`(?i)\bbank(ing)?\b`), "finance"},
	{regexp.MustCompile(`(?i)\bfinance\b`), "finance"},
	{regexp.MustCompile(`(?i)\bfinancial\b`), "finance"},
	{regexp.MustCompile(`(?i)\binsurance\b`), "finance"},
	{regexp.MustCompile(`(?i)\bhealthcare\b`), "healthcare"},
	{regexp.MustCompile(`(?i)\bpharmaceutical\b`), "healthcare"},
	{regexp.MustCompile(`(?i)\benergy\b`), "energy"},
	{regexp.MustCompile(`(?i)\boil\b`), "energy"},
	{regexp.MustCompile(`(?i)\bgas\b`), "energy"},
	{regexp.MustCompile(`(?i)\bretail\b`), "retail"},
	{regexp.MustCompile(`(?i)\bmanufacturing\b`), "manufacturing"},
	{regexp.MustCompile(`(?i)\breal estate\b`), "real estate"},
	{regexp.MustCompile(`(?i)\btelecom\b`), "telecom"},
}

// DocumentMetadata holds the (sector, company, year) triple extracted
// once per document and attached to every chunk of that document.
type DocumentMetadata struct {
	Sector  string
	Company string
	Year    string
}

// ExtractMetadata scans the full document body for the year, company and
// sector signals. Any field that does not match defaults to
// core.Unknown; no error is ever returned.
func ExtractMetadata(document string) DocumentMetadata {
	return DocumentMetadata{
		Sector:  extractSector(document),
		Company: extractCompany(document),
		Year:    extractYear(document),
	}
}

func extractYear(document string) string {
	m := yearPattern.FindString(document)
	if m == "" {
		return core.Unknown
	}
	return m
}

func extractCompany(document string) string {
	m := companyPattern.FindString(document)
	if m == "" {
		return core.Unknown
	}
	return strings.TrimRight(m, ".,;: \t\n")
}

func extractSector(document string) string {
	best := -1
	sector := core.Unknown
	for _, entry := range sectorLexicon {
		loc := entry.pattern.FindStringIndex(document)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			sector = entry.sector
		}
	}
	return sector
}
