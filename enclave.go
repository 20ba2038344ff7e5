package enclaveml

import (
	log "github.com/sirupsen/logrus"
)

// EnclaveHandle identifies one enclave-side session record. It is
// allocated inside the trust boundary, independently of the host's
// numbering, and the two handle spaces are never collapsed: the
// untrusted side must not hold a capability onto enclave-internal
// state, and the enclave must not leak its numbering as the host's.
// 0 is reserved and never assigned.
type EnclaveHandle uint64

// HostCalls is the enclave's view of the untrusted callbacks. In
// production it is the hostStub created by the bridge; tests inject
// doubles to count calls and script failures.
type HostCalls interface {
	LoadModel(model []byte) (HostHandle, error)
	RunInference(handle HostHandle, input, out []byte) (int, error)
	ReleaseSession(handle HostHandle) error
}

// enclaveSession is the only state the trust boundary retains per
// session: the paired host handle. Model bytes, tensor shapes and
// buffers all live host-side.
type enclaveSession struct {
	hostHandle HostHandle
}

// Enclave is the trusted side of the boundary. Callers for a given
// handle are expected to arrive strictly sequentially (initialize,
// zero or more infers, terminate); the table itself tolerates
// concurrent sessions but no entry point is cancellable.
type Enclave struct {
	host     HostCalls
	attester Attester
	sessions *sessionTable[EnclaveHandle, enclaveSession]
	log      *log.Entry
}

// NewEnclave returns an Enclave reaching the untrusted side through
// host, keeping at most maxSessions live sessions (-1 for no cap).
func NewEnclave(host HostCalls, attester Attester, maxSessions int) *Enclave {
	return &Enclave{
		host:     host,
		attester: attester,
		sessions: newSessionTable[EnclaveHandle, enclaveSession](maxSessions),
		log:      log.WithField("side", "enclave"),
	}
}

// InitializeMLContext asks the host to load a model from raw bytes and
// on success records the returned host handle under a fresh enclave
// handle. No partial state survives any failure path.
func (e *Enclave) InitializeMLContext(model []byte) (EnclaveHandle, error) {
	if len(model) == 0 {
		return 0, resultError(LayerEnclave, InvalidParameter, "empty model")
	}

	e.log.Infof("Requesting host to load model (%d bytes).", len(model))
	hostHandle, err := e.host.LoadModel(model)
	if err != nil {
		// Transport failure means hostHandle is not trustworthy;
		// logic failure means the host refused. Either way there is
		// nothing to record or to unwind.
		e.log.WithError(err).Error("Load callback failed.")
		return 0, err
	}
	if hostHandle == 0 {
		// The host claimed success but gave no handle. Do not trust
		// the status on faith.
		e.log.Error("Host claimed success but returned handle 0.")
		return 0, resultError(LayerEnclave, Unexpected, "load callback returned handle 0")
	}

	handle, ok := e.sessions.Add(enclaveSession{hostHandle: hostHandle})
	if !ok {
		// The host-side session exists but will never be reachable
		// from here; release it before reporting the failure.
		if rerr := e.host.ReleaseSession(hostHandle); rerr != nil {
			e.log.WithError(rerr).Warn("Could not release the host session after a full table.")
		}
		return 0, resultError(LayerEnclave, OutOfMemory, "session table full")
	}
	e.log.WithFields(log.Fields{"handle": handle, "host_handle": hostHandle}).
		Info("Initialized ML context.")
	return handle, nil
}

// Infer runs the model behind handle on a flat token buffer, writing
// at most len(out) bytes into out. The count is the true required
// output size even on BufferTooSmall; the session record is untouched
// either way.
func (e *Enclave) Infer(handle EnclaveHandle, input, out []byte) (int, error) {
	if handle == 0 || len(input) == 0 || len(out) == 0 {
		return 0, resultError(LayerEnclave, InvalidParameter,
			"handle %d, %d input bytes, %d capacity", handle, len(input), len(out))
	}

	session, ok := e.sessions.Get(handle)
	if !ok {
		return 0, resultError(LayerEnclave, NotFound, "no session for handle %d", handle)
	}

	n, err := e.host.RunInference(session.hostHandle, input, out)
	if err != nil {
		e.log.WithError(err).WithField("handle", handle).Error("Run callback failed.")
		return n, err
	}
	e.log.WithField("handle", handle).Debugf("Inference produced %d bytes.", n)
	return n, nil
}

// TerminateMLContext releases the host-side session and erases the
// local record. The erase is unconditional: a dangling enclave record
// serves no purpose once termination was requested, even if the host
// failed to clean up. The host's failure is still surfaced in the
// return value so the caller can log it.
func (e *Enclave) TerminateMLContext(handle EnclaveHandle) error {
	if handle == 0 {
		return resultError(LayerEnclave, InvalidParameter, "handle 0")
	}

	session, ok := e.sessions.Get(handle)
	if !ok {
		return resultError(LayerEnclave, NotFound, "no session for handle %d", handle)
	}

	err := e.host.ReleaseSession(session.hostHandle)
	if err != nil {
		e.log.WithError(err).WithField("handle", handle).
			Error("Release callback failed; erasing the local record anyway.")
	}
	e.sessions.Delete(handle)
	e.log.WithField("handle", handle).Info("Terminated ML context.")
	return err
}

// GetEvidence produces an attestation evidence blob for this execution
// context. The format is negotiated internally from a preference list;
// the blob is opaque to this package and to the caller, who only
// transports it to a verifier.
func (e *Enclave) GetEvidence() ([]byte, error) {
	evidence, err := GetEvidence(e.attester)
	if err != nil {
		e.log.WithError(err).Error("Could not produce attestation evidence.")
		return nil, err
	}
	e.log.Infof("Produced %d bytes of attestation evidence.", len(evidence))
	return evidence, nil
}

// SessionCount returns the number of live enclave-side records.
func (e *Enclave) SessionCount() int {
	return e.sessions.Len()
}
