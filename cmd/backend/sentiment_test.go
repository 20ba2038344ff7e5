package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	assert.InDelta(t, 1.0, cosineSimilarity(a, []float32{2, 0, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity(a, []float32{0, 1, 0}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity(a, []float32{-1, 0, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity(a, []float32{0, 0, 0}))
}

func TestClassify(t *testing.T) {
	refs := &references{
		positive: []float32{1, 0},
		negative: []float32{-1, 0},
	}
	assert.Equal(t, "Positive", refs.classify([]float32{0.9, 0.1}))
	assert.Equal(t, "Negative", refs.classify([]float32{-0.9, 0.1}))
	assert.Equal(t, "Neutral", refs.classify([]float32{0, 1}))
}

func TestLoadReferences(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, v []float32) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0600))
		return path
	}

	refs, err := loadReferences(
		write("pos.json", []float32{0.1, 0.2}),
		write("neg.json", []float32{-0.1, -0.2}))
	require.NoError(t, err)
	assert.Len(t, refs.positive, 2)

	_, err = loadReferences(write("empty.json", []float32{}), write("neg2.json", []float32{1}))
	assert.Error(t, err)
}

func TestDecodeEmbedding(t *testing.T) {
	raw := []byte{0, 0, 128, 63, 0, 0, 0, 64} // 1.0, 2.0 little-endian
	embedding := decodeEmbedding(raw)
	require.Len(t, embedding, 2)
	assert.Equal(t, float32(1.0), embedding[0])
	assert.Equal(t, float32(2.0), embedding[1])
}
