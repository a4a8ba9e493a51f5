package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finrag/finrag/core"
)

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want DocumentMetadata
	}{
		{
			name: "apple technology",
			doc:  "Apple Inc. 2023 Annual Report - Technology Sector. Revenue was 383.3 billion.",
			want: DocumentMetadata{Sector: "technology", Company: "Apple Inc", Year: "2023"},
		},
		{
			name: "jpmorgan finance",
			doc:  "JPMorgan Chase & Co. 2023 Annual Report - Finance Sector. Revenue was 158.1 billion.",
			want: DocumentMetadata{Sector: "finance", Company: "JPMorgan Chase & Co", Year: "2023"},
		},
		{
			name: "no signals at all",
			doc:  "This document contains no recognizable entities whatsoever.",
			want: DocumentMetadata{Sector: core.Unknown, Company: core.Unknown, Year: core.Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMetadata(tt.doc)
			assert.Equal(t, tt.want.Sector, got.Sector)
			assert.Equal(t, tt.want.Company, got.Company)
			assert.Equal(t, tt.want.Year, got.Year)
		})
	}
}

func TestExtractSector_FirstMatchInDocumentOrder(t *testing.T) {
	doc := "The healthcare division grew, but the bank's insurance arm grew faster."
	got := extractSector(doc)
	assert.Equal(t, "healthcare", got, "earliest position in document order wins")
}
