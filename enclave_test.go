package enclaveml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyHost is a scriptable HostCalls double that counts every callback.
type spyHost struct {
	loadCalls    int
	runCalls     int
	releaseCalls int

	loadHandle HostHandle
	loadErr    error
	runOutput  []byte
	runErr     error
	releaseErr error
}

func (s *spyHost) LoadModel(model []byte) (HostHandle, error) {
	s.loadCalls++
	return s.loadHandle, s.loadErr
}

func (s *spyHost) RunInference(handle HostHandle, input, out []byte) (int, error) {
	s.runCalls++
	if s.runErr != nil {
		return 0, s.runErr
	}
	if len(s.runOutput) > len(out) {
		return len(s.runOutput), resultError(LayerHost, BufferTooSmall, "need %d bytes", len(s.runOutput))
	}
	copy(out, s.runOutput)
	return len(s.runOutput), nil
}

func (s *spyHost) ReleaseSession(handle HostHandle) error {
	s.releaseCalls++
	return s.releaseErr
}

func newTestEnclave(host HostCalls) *Enclave {
	return NewEnclave(host, NewSimulatedAttester("test"), -1)
}

func TestInitializeHandlesAreNonZeroAndUnique(t *testing.T) {
	enclave := newTestEnclave(&spyHost{loadHandle: 1})

	seen := map[EnclaveHandle]bool{}
	for i := 0; i < 50; i++ {
		handle, err := enclave.InitializeMLContext([]byte("model"))
		require.NoError(t, err)
		require.NotZero(t, handle)
		require.False(t, seen[handle], "handle %d repeated", handle)
		seen[handle] = true
	}
}

func TestInitializeRejectsEmptyModel(t *testing.T) {
	host := &spyHost{loadHandle: 1}
	enclave := newTestEnclave(host)

	_, err := enclave.InitializeMLContext(nil)
	assert.True(t, IsResult(err, InvalidParameter))
	assert.Equal(t, 0, host.loadCalls, "load callback ran despite the precondition failure")
}

func TestInitializeLoadFailureLeavesNoState(t *testing.T) {
	host := &spyHost{loadErr: resultError(LayerHost, Failure, "unparsable model")}
	enclave := newTestEnclave(host)

	_, err := enclave.InitializeMLContext([]byte("model"))
	assert.True(t, IsResult(err, Failure))
	assert.Equal(t, 0, enclave.SessionCount())
}

func TestInitializeZeroHostHandleIsUnexpected(t *testing.T) {
	// The host claims success but returns handle 0: a cross-check
	// violation, not a success to take on faith.
	host := &spyHost{loadHandle: 0}
	enclave := newTestEnclave(host)

	_, err := enclave.InitializeMLContext([]byte("model"))
	assert.True(t, IsResult(err, Unexpected))
	assert.Equal(t, 0, enclave.SessionCount())
}

func TestInitializeFullTableReleasesHostSession(t *testing.T) {
	host := &spyHost{loadHandle: 9}
	enclave := NewEnclave(host, nil, 1)

	_, err := enclave.InitializeMLContext([]byte("model"))
	require.NoError(t, err)

	_, err = enclave.InitializeMLContext([]byte("model"))
	assert.True(t, IsResult(err, OutOfMemory))
	assert.Equal(t, 1, host.releaseCalls, "orphaned host session was not released")
	assert.Equal(t, 1, enclave.SessionCount())
}

func TestInferUnknownHandleMakesNoCallback(t *testing.T) {
	host := &spyHost{loadHandle: 1}
	enclave := newTestEnclave(host)

	out := make([]byte, 32)
	_, err := enclave.Infer(42, []byte{1, 2, 3, 4, 5, 6, 7, 8}, out)
	assert.True(t, IsResult(err, NotFound))
	assert.Equal(t, 0, host.runCalls)
}

func TestInferRejectsBadParameters(t *testing.T) {
	host := &spyHost{loadHandle: 1}
	enclave := newTestEnclave(host)
	handle, err := enclave.InitializeMLContext([]byte("model"))
	require.NoError(t, err)

	out := make([]byte, 32)
	cases := []struct {
		name   string
		handle EnclaveHandle
		input  []byte
		out    []byte
	}{
		{"zero handle", 0, []byte{1}, out},
		{"empty input", handle, nil, out},
		{"zero capacity", handle, []byte{1}, nil},
	}
	for _, tc := range cases {
		_, err := enclave.Infer(tc.handle, tc.input, tc.out)
		assert.True(t, IsResult(err, InvalidParameter), tc.name)
	}
	assert.Equal(t, 0, host.runCalls)
}

func TestInferPropagatesRunFailureUnchanged(t *testing.T) {
	host := &spyHost{
		loadHandle: 1,
		runErr:     resultError(LayerHost, Failure, "runtime fault"),
	}
	enclave := newTestEnclave(host)
	handle, err := enclave.InitializeMLContext([]byte("model"))
	require.NoError(t, err)

	_, err = enclave.Infer(handle, []byte{1, 2, 3, 4, 5, 6, 7, 8}, make([]byte, 8))
	assert.True(t, IsResult(err, Failure))
	assert.Equal(t, LayerHost, LayerOf(err), "remote logic failure must not be relabeled")
	assert.Equal(t, 1, enclave.SessionCount(), "a failed infer must not tear down the session")
}

func TestInferBufferTooSmallReportsTrueSize(t *testing.T) {
	host := &spyHost{loadHandle: 1, runOutput: make([]byte, 64)}
	enclave := newTestEnclave(host)
	handle, err := enclave.InitializeMLContext([]byte("model"))
	require.NoError(t, err)

	out := make([]byte, 16)
	n, err := enclave.Infer(handle, []byte{1, 2, 3, 4, 5, 6, 7, 8}, out)
	assert.True(t, IsResult(err, BufferTooSmall))
	assert.Equal(t, 64, n, "actual-size must be the true required size")

	// The session survives: a larger retry succeeds on the same
	// handle.
	out = make([]byte, 64)
	n, err = enclave.Infer(handle, []byte{1, 2, 3, 4, 5, 6, 7, 8}, out)
	require.NoError(t, err)
	assert.Equal(t, 64, n)
}

func TestTerminateAlwaysRemovesRecord(t *testing.T) {
	host := &spyHost{
		loadHandle: 1,
		releaseErr: resultError(LayerHost, Failure, "injected release failure"),
	}
	enclave := newTestEnclave(host)
	handle, err := enclave.InitializeMLContext([]byte("model"))
	require.NoError(t, err)

	// The release failure is surfaced, but the local record is gone
	// regardless.
	err = enclave.TerminateMLContext(handle)
	assert.True(t, IsResult(err, Failure))
	assert.Equal(t, 0, enclave.SessionCount())

	_, err = enclave.Infer(handle, []byte{1, 2, 3, 4, 5, 6, 7, 8}, make([]byte, 8))
	assert.True(t, IsResult(err, NotFound))
}

func TestTerminateUnknownHandleMakesNoCallback(t *testing.T) {
	host := &spyHost{loadHandle: 1}
	enclave := newTestEnclave(host)

	err := enclave.TerminateMLContext(42)
	assert.True(t, IsResult(err, NotFound))
	assert.Equal(t, 0, host.releaseCalls)
}

func TestTerminateTwiceIsNotFound(t *testing.T) {
	host := &spyHost{loadHandle: 1}
	enclave := newTestEnclave(host)
	handle, err := enclave.InitializeMLContext([]byte("model"))
	require.NoError(t, err)

	require.NoError(t, enclave.TerminateMLContext(handle))
	err = enclave.TerminateMLContext(handle)
	assert.True(t, IsResult(err, NotFound))
	assert.Equal(t, 1, host.releaseCalls, "release callback ran for an absent handle")
}

func TestGetEvidenceWithoutAttester(t *testing.T) {
	enclave := NewEnclave(&spyHost{loadHandle: 1}, nil, -1)
	_, err := enclave.GetEvidence()
	assert.Error(t, err)
}
