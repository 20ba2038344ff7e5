package enclaveml

import (
	log "github.com/sirupsen/logrus"
)

// HostHandle identifies one live runtime session owned by the
// untrusted side. 0 is reserved and never assigned.
type HostHandle uint64

// Host is the untrusted side of the boundary. It owns every runtime
// resource: the loaded models, the inference buffers, and the table
// mapping host handles to them. The enclave only ever refers to these
// resources by handle.
type Host struct {
	engine   Engine
	sessions *sessionTable[HostHandle, ModelSession]
	log      *log.Entry
}

// NewHost returns a Host running inference through engine, keeping at
// most maxSessions live sessions (-1 for no cap).
func NewHost(engine Engine, maxSessions int) *Host {
	return &Host{
		engine:   engine,
		sessions: newSessionTable[HostHandle, ModelSession](maxSessions),
		log:      log.WithField("side", "host"),
	}
}

// LoadModel implements the load callback: construct a runtime session
// from raw model bytes and hand back a fresh non-zero handle.
func (h *Host) LoadModel(model []byte) (HostHandle, error) {
	session, err := h.engine.Load(model)
	if err != nil {
		h.log.WithError(err).Error("Engine could not load the model.")
		return 0, resultError(LayerHost, Failure, "load model: %v", err)
	}

	handle, ok := h.sessions.Add(session)
	if !ok {
		// The handle was never visible outside this call, so the
		// session can be freed without going through ReleaseSession.
		if cerr := session.Close(); cerr != nil {
			h.log.WithError(cerr).Warn("Could not free the session after a full table.")
		}
		return 0, resultError(LayerHost, OutOfMemory, "session table full")
	}
	h.log.WithField("handle", handle).Infof("Loaded model (%d bytes).", len(model))
	return handle, nil
}

// RunInference implements the run callback. The returned count is the
// true required output size even when it exceeds len(out); in that case
// the error is BufferTooSmall and out was not written.
func (h *Host) RunInference(handle HostHandle, input, out []byte) (int, error) {
	session, ok := h.sessions.Get(handle)
	if !ok {
		return 0, resultError(LayerHost, NotFound, "no session for handle %d", handle)
	}
	return session.Run(input, out)
}

// ReleaseSession implements the release callback: free the runtime
// session and erase the table entry.
func (h *Host) ReleaseSession(handle HostHandle) error {
	session, ok := h.sessions.Get(handle)
	if !ok {
		return resultError(LayerHost, NotFound, "no session for handle %d", handle)
	}
	h.sessions.Delete(handle)
	if err := session.Close(); err != nil {
		h.log.WithError(err).WithField("handle", handle).Error("Could not free the session.")
		return resultError(LayerHost, Failure, "free session %d: %v", handle, err)
	}
	h.log.WithField("handle", handle).Info("Released session.")
	return nil
}

// SessionCount returns the number of live host-side sessions. It is
// how the leak checks and the operational logs see table growth.
func (h *Host) SessionCount() int {
	return h.sessions.Len()
}
