package enclaveml

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// TokenWidth is the byte width of one input token id. Inputs are flat
// little-endian int64 token buffers, matching what the tokenizer emits.
const TokenWidth = 8

// Engine is the opaque inference runtime the host delegates to. The
// real deployments back this with ONNX Runtime or GGML behind cgo; this
// package only ever hands it raw bytes and takes raw bytes back.
type Engine interface {
	// Load constructs a runtime session from raw model bytes.
	Load(model []byte) (ModelSession, error)
}

// ModelSession is one loaded model plus its allocated inference
// buffers. Sessions are not safe for concurrent Run calls.
type ModelSession interface {
	// OutputSize returns the byte size Run produces for this model.
	OutputSize() int

	// Run executes the model on a flat token buffer, writing at most
	// len(out) bytes into out. The returned count is always the true
	// required size; when it exceeds len(out) the error is
	// BufferTooSmall and out must be considered unwritten.
	Run(input, out []byte) (int, error)

	// Close frees the runtime resources.
	Close() error
}

// SimulatedEngine stands in for the native runtime when the trust
// boundary runs in simulation mode, and in tests. It derives a
// deterministic unit-length embedding from the model bytes (as seed)
// and the input tokens, so the full tokenize-infer-classify pipeline is
// exercisable without a native runtime.
type SimulatedEngine struct {
	dim int
}

// NewSimulatedEngine returns a simulated engine producing embeddings of
// dim float32 values.
func NewSimulatedEngine(dim int) *SimulatedEngine {
	return &SimulatedEngine{dim: dim}
}

func (e *SimulatedEngine) Load(model []byte) (ModelSession, error) {
	if len(model) == 0 {
		return nil, errors.New("empty model")
	}
	return &simSession{
		dim:  e.dim,
		seed: sha256.Sum256(model),
	}, nil
}

type simSession struct {
	dim    int
	seed   [32]byte
	closed bool
}

func (s *simSession) OutputSize() int {
	return s.dim * 4
}

// Run infers the token count from the input byte length. Like the
// original host, it assumes exactly one dynamic dimension and silently
// drops a trailing partial token; see the pinning test.
func (s *simSession) Run(input, out []byte) (int, error) {
	if s.closed {
		return 0, errors.New("session closed")
	}
	required := s.OutputSize()
	if required > len(out) {
		return required, resultError(LayerHost, BufferTooSmall,
			"output needs %d bytes, caller supplied %d", required, len(out))
	}

	numTokens := len(input) / TokenWidth
	tokens := input[:numTokens*TokenWidth]

	// Expand sha256(seed || tokens || counter) into dim floats in
	// [-1, 1], then normalize to unit length so cosine similarity
	// downstream behaves.
	embedding := make([]float32, s.dim)
	var norm float64
	var block [32]byte
	h := sha256.New()
	for i := 0; i < s.dim; i++ {
		if i%8 == 0 {
			h.Reset()
			h.Write(s.seed[:])
			h.Write(tokens)
			var ctr [4]byte
			binary.LittleEndian.PutUint32(ctr[:], uint32(i/8))
			h.Write(ctr[:])
			h.Sum(block[:0])
		}
		u := binary.LittleEndian.Uint32(block[(i%8)*4:])
		v := float32(u)/float32(math.MaxUint32)*2 - 1
		embedding[i] = v
		norm += float64(v) * float64(v)
	}
	scale := float32(1)
	if norm > 0 {
		scale = float32(1 / math.Sqrt(norm))
	}
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v*scale))
	}
	return required, nil
}

func (s *simSession) Close() error {
	s.closed = true
	return nil
}
