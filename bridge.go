// The bridge plays the role of the EDL-generated stubs: every crossing
// of the trust boundary copies its buffers into the callee's address
// space, bounded by declared limits, and reports marshalling failure
// through a transport-layer error distinct from any logic status.
// Skipping either check before trusting an output is a defect.
package enclaveml

import (
	log "github.com/sirupsen/logrus"
)

// Limits bound every buffer crossing the boundary. A call whose buffer
// exceeds its bound fails at the transport layer before the callee
// observes any data.
type Limits struct {
	MaxModelBytes  int
	MaxInputBytes  int
	MaxOutputBytes int
}

// DefaultLimits matches the heap the original enclave was provisioned
// with: models up to 512 MiB, token buffers up to 1 MiB, output
// tensors up to 16 MiB.
var DefaultLimits = Limits{
	MaxModelBytes:  512 << 20,
	MaxInputBytes:  1 << 20,
	MaxOutputBytes: 16 << 20,
}

func (l Limits) withDefaults() Limits {
	if l.MaxModelBytes == 0 {
		l.MaxModelBytes = DefaultLimits.MaxModelBytes
	}
	if l.MaxInputBytes == 0 {
		l.MaxInputBytes = DefaultLimits.MaxInputBytes
	}
	if l.MaxOutputBytes == 0 {
		l.MaxOutputBytes = DefaultLimits.MaxOutputBytes
	}
	return l
}

// EnclaveOptions configure enclave creation.
type EnclaveOptions struct {
	// Simulate runs the trust boundary without enclave hardware,
	// the equivalent of OE_ENCLAVE_FLAG_SIMULATE.
	Simulate bool

	// MaxSessions caps the live sessions on each side. -1, the
	// zero-value fallback, allows an unlimited number of sessions.
	MaxSessions int

	// Limits bound the buffers crossing the boundary; zero fields
	// fall back to DefaultLimits.
	Limits Limits
}

// EnclaveProxy is the untrusted side's handle onto the trusted entry
// points, and the only supported way to invoke them. It owns the
// marshalling discipline for the ecall direction.
type EnclaveProxy struct {
	enclave *Enclave
	limits  Limits
	log     *log.Entry
}

// CreateEnclave wires an Enclave to the host's callbacks through the
// marshalling stubs and returns the proxy for its entry points.
func CreateEnclave(host *Host, attester Attester, opts EnclaveOptions) *EnclaveProxy {
	limits := opts.Limits.withDefaults()
	maxSessions := opts.MaxSessions
	if maxSessions == 0 {
		maxSessions = -1
	}

	stub := &hostStub{host: host, limits: limits}
	proxy := &EnclaveProxy{
		enclave: NewEnclave(stub, attester, maxSessions),
		limits:  limits,
		log:     log.WithField("side", "bridge"),
	}
	proxy.log.WithField("simulate", opts.Simulate).Info("Created enclave.")
	return proxy
}

// InitializeMLContext marshals the model bytes into the enclave and
// returns the enclave session handle.
func (p *EnclaveProxy) InitializeMLContext(model []byte) (EnclaveHandle, error) {
	if model == nil {
		return 0, resultError(LayerTransport, InvalidParameter, "nil model buffer")
	}
	if len(model) > p.limits.MaxModelBytes {
		return 0, resultError(LayerTransport, InvalidParameter,
			"model of %d bytes exceeds the %d byte bound", len(model), p.limits.MaxModelBytes)
	}
	return p.enclave.InitializeMLContext(copyIn(model))
}

// Infer marshals the token buffer in, allocates a zero-filled output
// buffer of the declared capacity, and returns the trimmed output plus
// the true required size. When the required size exceeds capacity the
// error is BufferTooSmall, out is nil, and n still reports the
// required size so the caller can retry with a larger buffer.
func (p *EnclaveProxy) Infer(handle EnclaveHandle, input []byte, capacity int) (out []byte, n int, err error) {
	if input == nil {
		return nil, 0, resultError(LayerTransport, InvalidParameter, "nil input buffer")
	}
	if len(input) > p.limits.MaxInputBytes {
		return nil, 0, resultError(LayerTransport, InvalidParameter,
			"input of %d bytes exceeds the %d byte bound", len(input), p.limits.MaxInputBytes)
	}
	if capacity <= 0 || capacity > p.limits.MaxOutputBytes {
		return nil, 0, resultError(LayerTransport, InvalidParameter,
			"output capacity %d outside (0, %d]", capacity, p.limits.MaxOutputBytes)
	}

	buf := make([]byte, capacity)
	n, err = p.enclave.Infer(handle, copyIn(input), buf)
	if err != nil {
		return nil, n, err
	}
	if n > capacity {
		// Success status with an overlong count contradicts itself.
		return nil, n, resultError(LayerTransport, Unexpected,
			"enclave reported %d bytes written into a %d byte buffer", n, capacity)
	}
	return buf[:n], n, nil
}

// TerminateMLContext tears down the session behind handle.
func (p *EnclaveProxy) TerminateMLContext(handle EnclaveHandle) error {
	return p.enclave.TerminateMLContext(handle)
}

// GetEvidence returns the enclave's attestation evidence blob.
func (p *EnclaveProxy) GetEvidence() ([]byte, error) {
	evidence, err := p.enclave.GetEvidence()
	if err != nil {
		return nil, err
	}
	return copyIn(evidence), nil
}

// hostStub is the trusted side's stub for the untrusted callbacks: the
// ocall direction of the marshalling contract.
type hostStub struct {
	host   *Host
	limits Limits
}

var _ HostCalls = (*hostStub)(nil)

func (s *hostStub) LoadModel(model []byte) (HostHandle, error) {
	if len(model) > s.limits.MaxModelBytes {
		return 0, resultError(LayerTransport, InvalidParameter,
			"model of %d bytes exceeds the %d byte bound", len(model), s.limits.MaxModelBytes)
	}
	return s.host.LoadModel(copyIn(model))
}

func (s *hostStub) RunInference(handle HostHandle, input, out []byte) (int, error) {
	if len(input) > s.limits.MaxInputBytes {
		return 0, resultError(LayerTransport, InvalidParameter,
			"input of %d bytes exceeds the %d byte bound", len(input), s.limits.MaxInputBytes)
	}
	if len(out) > s.limits.MaxOutputBytes {
		return 0, resultError(LayerTransport, InvalidParameter,
			"output capacity %d exceeds the %d byte bound", len(out), s.limits.MaxOutputBytes)
	}

	hostBuf := make([]byte, len(out))
	n, err := s.host.RunInference(handle, copyIn(input), hostBuf)
	if err != nil {
		// The buffer contents are not trustworthy on any failure,
		// including BufferTooSmall; only the count crosses back.
		return n, err
	}
	if n > len(out) {
		return n, resultError(LayerTransport, Unexpected,
			"host reported %d bytes written into a %d byte buffer", n, len(out))
	}
	copy(out, hostBuf[:n])
	return n, nil
}

func (s *hostStub) ReleaseSession(handle HostHandle) error {
	return s.host.ReleaseSession(handle)
}

// copyIn detaches a buffer from the caller's memory before it crosses
// the boundary, so the callee never aliases caller-owned bytes.
func copyIn(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
