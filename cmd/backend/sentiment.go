package main

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
)

// references holds the pre-computed embeddings the sentiment heuristic
// compares against. They come from running the reference sentences
// ("This statement is good, positive, and happy." and its negative
// counterpart) through the same model offline.
type references struct {
	positive []float32
	negative []float32
}

func loadReferences(positivePath, negativePath string) (*references, error) {
	positive, err := loadEmbedding(positivePath)
	if err != nil {
		return nil, err
	}
	negative, err := loadEmbedding(negativePath)
	if err != nil {
		return nil, err
	}
	return &references{positive: positive, negative: negative}, nil
}

func loadEmbedding(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read reference embedding %s", path)
	}
	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		return nil, errors.Wrapf(err, "parse reference embedding %s", path)
	}
	if len(embedding) == 0 {
		return nil, errors.Errorf("reference embedding %s is empty", path)
	}
	return embedding, nil
}

// classify labels an embedding by whichever reference it is closer to
// in cosine similarity.
func (r *references) classify(embedding []float32) string {
	pos := cosineSimilarity(embedding, r.positive)
	neg := cosineSimilarity(embedding, r.negative)
	switch {
	case pos > neg:
		return "Positive"
	case neg > pos:
		return "Negative"
	default:
		return "Neutral"
	}
}

// cosineSimilarity compares vectors over their common prefix, so a
// dimension mismatch degrades instead of panicking.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, aMag, bMag float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		aMag += float64(a[i]) * float64(a[i])
		bMag += float64(b[i]) * float64(b[i])
	}
	if aMag == 0 || bMag == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(aMag) * math.Sqrt(bMag))
}

// decodeEmbedding turns the raw little-endian float32 bytes from the
// inference output into a vector.
func decodeEmbedding(raw []byte) []float32 {
	embedding := make([]float32, len(raw)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return embedding
}
