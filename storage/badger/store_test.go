package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrag/finrag/core"
	"github.com/finrag/finrag/storage"
)

func sampleTree() *core.Tree {
	tree := core.NewTree()

	leaf0 := &core.Node{ID: "leaf:0:0", Level: 0, Text: "Apple revenue grew.", Embedding: []float32{0.1, 0.2, 0.3}, Metadata: core.Metadata{Sector: "tech", Company: "apple", Year: "2024"}}
	leaf1 := &core.Node{ID: "leaf:0:1", Level: 0, Text: "Apple margins improved.", Embedding: []float32{0.15, 0.22, 0.29}, Metadata: core.Metadata{Sector: "tech", Company: "apple", Year: "2024"}}
	tree.AddNode(leaf0)
	tree.AddNode(leaf1)

	root := &core.Node{
		ID:        "L1:0",
		Level:     1,
		Text:      "Apple had a strong year.",
		Embedding: []float32{0.12, 0.21, 0.3},
		Children:  []*core.Node{leaf0, leaf1},
		Metadata:  core.Metadata{Sector: "tech", Company: "apple", Year: "2024", NumChildren: 2},
	}
	tree.AddNode(root)
	tree.SetRoot(root)

	return tree
}

func newMemoryStore(t *testing.T) *Store {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return NewStore(backend)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newMemoryStore(t)
	tree := sampleTree()
	cfg := storage.PersistedConfig{ChunkSize: 512, MaxDepth: 4}

	require.NoError(t, store.Save(context.Background(), tree, 3, cfg))

	loaded, d, loadedCfg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, d)
	assert.Equal(t, cfg, loadedCfg)
	require.Equal(t, tree.TotalNodes(), loaded.TotalNodes())

	root := loaded.Root()
	require.NotNil(t, root)
	assert.Equal(t, core.NodeID("L1:0"), root.ID)
	assert.Len(t, root.Children, 2)
}

func TestStore_LoadWithoutSaveReturnsIndexNotFound(t *testing.T) {
	store := newMemoryStore(t)
	_, _, _, err := store.Load(context.Background())
	assert.Equal(t, core.ErrIndexNotFound, err)
}

func TestStore_SaveTwiceReplacesPreviousTree(t *testing.T) {
	store := newMemoryStore(t)
	require.NoError(t, store.Save(context.Background(), sampleTree(), 3, storage.PersistedConfig{}))

	smaller := core.NewTree()
	leaf := &core.Node{ID: "leaf:0:0", Level: 0, Text: "solo", Embedding: []float32{1, 0, 0}}
	smaller.AddNode(leaf)
	smaller.SetRoot(leaf)

	require.NoError(t, store.Save(context.Background(), smaller, 3, storage.PersistedConfig{}))

	loaded, _, _, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalNodes(), "orphaned records from prior save should be cleared")
}

func TestStore_SaveOnClosedStoreFails(t *testing.T) {
	store := newMemoryStore(t)
	store.Close()
	err := store.Save(context.Background(), sampleTree(), 3, storage.PersistedConfig{})
	assert.Equal(t, storage.ErrStorageClosed, err)
}
