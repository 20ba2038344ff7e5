package enclaveml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBridge(engine Engine, limits Limits) (*EnclaveProxy, *Host) {
	host := NewHost(engine, -1)
	proxy := CreateEnclave(host, NewSimulatedAttester("test"), EnclaveOptions{
		Simulate: true,
		Limits:   limits,
	})
	return proxy, host
}

func TestProxyRejectsOversizedBuffers(t *testing.T) {
	engine := &fakeEngine{output: make([]byte, 8)}
	proxy, _ := newTestBridge(engine, Limits{
		MaxModelBytes:  16,
		MaxInputBytes:  16,
		MaxOutputBytes: 16,
	})

	_, err := proxy.InitializeMLContext(make([]byte, 17))
	assert.True(t, IsTransport(err))
	assert.True(t, IsResult(err, InvalidParameter))
	assert.Equal(t, 0, engine.loadCalls, "bounds violation reached the callee")

	handle, err := proxy.InitializeMLContext(make([]byte, 16))
	require.NoError(t, err)

	_, _, err = proxy.Infer(handle, make([]byte, 17), 8)
	assert.True(t, IsTransport(err))

	_, _, err = proxy.Infer(handle, make([]byte, 8), 17)
	assert.True(t, IsTransport(err))

	_, _, err = proxy.Infer(handle, make([]byte, 8), 0)
	assert.True(t, IsTransport(err))
}

func TestProxyRejectsNilBuffers(t *testing.T) {
	engine := &fakeEngine{output: make([]byte, 8)}
	proxy, _ := newTestBridge(engine, Limits{})

	_, err := proxy.InitializeMLContext(nil)
	assert.True(t, IsTransport(err))

	_, _, err = proxy.Infer(1, nil, 8)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, engine.loadCalls)
}

func TestProxyCopiesModelIn(t *testing.T) {
	// The enclave must never observe caller-owned memory: mutating
	// the caller's buffer after the call cannot retroactively change
	// what was loaded.
	var loaded []byte
	engine := &recordingEngine{onLoad: func(model []byte) { loaded = model }}
	proxy, _ := newTestBridge(engine, Limits{})

	model := []byte("model-v1")
	_, err := proxy.InitializeMLContext(model)
	require.NoError(t, err)

	copy(model, "XXXXXXXX")
	assert.True(t, bytes.Equal([]byte("model-v1"), loaded))
}

func TestStubRejectsContradictoryWriteCount(t *testing.T) {
	// A callee claiming success while reporting more bytes written
	// than the capacity it was handed is a cross-check violation.
	host := NewHost(&lyingEngine{}, -1)
	stub := &hostStub{host: host, limits: DefaultLimits}
	handle, err := stub.LoadModel([]byte("model"))
	require.NoError(t, err)

	_, err = stub.RunInference(handle, []byte{1, 2, 3, 4, 5, 6, 7, 8}, make([]byte, 8))
	assert.True(t, IsTransport(err))
	assert.True(t, IsResult(err, Unexpected))
}

func TestBridgeRoundTripLeavesNoSessions(t *testing.T) {
	proxy, host := newTestBridge(&fakeEngine{output: make([]byte, 8)}, Limits{})

	handle, err := proxy.InitializeMLContext(make([]byte, 100))
	require.NoError(t, err)
	require.NoError(t, proxy.TerminateMLContext(handle))

	assert.Equal(t, 0, host.SessionCount(), "host-side session leaked")
	assert.Equal(t, 0, proxy.enclave.SessionCount(), "enclave-side record leaked")
}

// TestBridgeScenario drives the full stack through the canonical
// sequence: initialize a 100-byte model, infer 8 bytes of input into a
// 32-byte buffer producing 16 bytes, terminate, no leaks.
func TestBridgeScenario(t *testing.T) {
	want := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	proxy, host := newTestBridge(&fakeEngine{output: want}, Limits{})

	handle, err := proxy.InitializeMLContext(make([]byte, 100))
	require.NoError(t, err)
	assert.Equal(t, EnclaveHandle(1), handle, "first allocation")

	out, n, err := proxy.Infer(handle, []byte{1, 2, 3, 4, 5, 6, 7, 8}, 32)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.True(t, bytes.Equal(want, out))

	// Too-small capacity on the same session: named status, true
	// size reported, nothing written.
	out, n, err = proxy.Infer(handle, []byte{1, 2, 3, 4, 5, 6, 7, 8}, 8)
	assert.True(t, IsResult(err, BufferTooSmall))
	assert.Equal(t, 16, n)
	assert.Nil(t, out)

	require.NoError(t, proxy.TerminateMLContext(handle))
	assert.Equal(t, 0, host.SessionCount())
	assert.Equal(t, 0, proxy.enclave.SessionCount())
}

func TestProxyGetEvidence(t *testing.T) {
	proxy, _ := newTestBridge(&fakeEngine{output: make([]byte, 8)}, Limits{})

	evidence, err := proxy.GetEvidence()
	require.NoError(t, err)
	_, err = VerifySimulatedEvidence(evidence)
	assert.NoError(t, err)
}

// recordingEngine keeps the exact buffer Load was handed.
type recordingEngine struct {
	onLoad func([]byte)
}

func (e *recordingEngine) Load(model []byte) (ModelSession, error) {
	e.onLoad(model)
	return &fakeSession{output: make([]byte, 8)}, nil
}

// lyingEngine reports success with a write count beyond capacity.
type lyingEngine struct{}

func (e *lyingEngine) Load(model []byte) (ModelSession, error) { return lyingSession{}, nil }

type lyingSession struct{}

func (lyingSession) OutputSize() int                 { return 8 }
func (lyingSession) Run(input, out []byte) (int, error) { return len(out) + 1, nil }
func (lyingSession) Close() error                    { return nil }
