package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMajorityVote(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"all unknown", []string{Unknown, Unknown}, Unknown},
		{"empty", []string{}, Unknown},
		{"single winner", []string{"technology", "technology", Unknown}, "technology"},
		{"tie broken by first appearance", []string{"a", "b", "a", "b"}, "a"},
		{"majority beats minority", []string{"2023", "2023", "2022"}, "2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MajorityVote(tt.values))
		})
	}
}

func TestInheritMetadata_Level1MajorityWithUnknowns(t *testing.T) {
	children := []*Node{
		{Metadata: Metadata{Sector: "technology", Company: "Acme Corp", Year: "2023"}},
		{Metadata: Metadata{Sector: "technology", Company: "Acme Corp", Year: "2023"}},
		{Metadata: Metadata{Sector: Unknown, Company: "Acme Corp", Year: "2022"}},
	}

	m := InheritMetadata(children, 1, 0)

	assert.Equal(t, "technology", m.Sector)
	assert.Equal(t, "Acme Corp", m.Company)
	assert.Equal(t, "2023", m.Year)
	assert.Equal(t, 3, m.NumChildren)
}

func TestInheritMetadata_SquashingByLevel(t *testing.T) {
	children := []*Node{
		{Metadata: Metadata{Sector: "finance", Company: "BankCo", Year: "2024"}},
	}

	m2 := InheritMetadata(children, 2, 0)
	assert.Equal(t, All, m2.Year)
	assert.Equal(t, "BankCo", m2.Company)

	m3 := InheritMetadata(children, 3, 0)
	assert.Equal(t, All, m3.Company)
	assert.Equal(t, All, m3.Year)
	assert.Equal(t, "finance", m3.Sector)

	m4 := InheritMetadata(children, 4, 0)
	assert.Equal(t, All, m4.Sector)
	assert.Equal(t, All, m4.Company)
	assert.Equal(t, All, m4.Year)
}
