package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRecordRoundTrip(t *testing.T) {
	rec := NodeRecord{
		ID:        InteriorID(2, 5),
		Level:     2,
		Text:      "a short summary",
		Embedding: []float32{0.5, -0.25, 1e-7, 3.25},
		ParentID:  InteriorID(3, 1),
		Metadata: Metadata{
			Sector:      "finance",
			Company:     All,
			Year:        All,
			NumChildren: 4,
			ClusterIdx:  5,
		},
	}

	size := SizeNodeRecord(rec)
	buf := make([]byte, size)
	n := MarshalNodeRecord(rec, buf)
	require.Equal(t, size, n, "MarshalNodeRecord should write exactly Size bytes")

	got, consumed, err := UnmarshalNodeRecord(buf)
	require.NoError(t, err)
	require.Equal(t, size, consumed)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Level, got.Level)
	assert.Equal(t, rec.Text, got.Text)
	assert.Equal(t, rec.ParentID, got.ParentID)
	assert.Equal(t, rec.Metadata, got.Metadata)

	require.Len(t, got.Embedding, len(rec.Embedding))
	for i := range rec.Embedding {
		assert.Equal(t, math.Float32bits(rec.Embedding[i]), math.Float32bits(got.Embedding[i]),
			"embedding[%d] must round-trip bit-exact", i)
	}
}

func TestUnmarshalNodeRecord_Truncated(t *testing.T) {
	rec := NodeRecord{ID: LeafID(0, 0), Text: "x", Embedding: []float32{1, 2, 3}}
	buf := make([]byte, SizeNodeRecord(rec))
	MarshalNodeRecord(rec, buf)

	_, _, err := UnmarshalNodeRecord(buf[:len(buf)-2])
	assert.Error(t, err)
}

func TestSequentialRecordsRoundTrip(t *testing.T) {
	records := []NodeRecord{
		{ID: LeafID(0, 0), Level: 0, Text: "chunk one", Embedding: []float32{1, 0}},
		{ID: LeafID(0, 1), Level: 0, Text: "chunk two", Embedding: []float32{0, 1}},
	}

	var buf []byte
	for _, r := range records {
		b := make([]byte, SizeNodeRecord(r))
		MarshalNodeRecord(r, b)
		buf = append(buf, b...)
	}

	offset := 0
	for i, want := range records {
		got, n, err := UnmarshalNodeRecord(buf[offset:])
		require.NoErrorf(t, err, "record %d", i)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Text, got.Text)
		offset += n
	}
	assert.Equal(t, len(buf), offset)
}
