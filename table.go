// The session tables on both sides of the trust boundary are guarded
// maps keyed by opaque non-zero handles. Unlike a cache there is no
// eviction: entries exist exactly between the load/initialize call that
// created them and the release/terminate call that erased them.
package enclaveml

import "sync"

// sessionTable maps handles of type H to session records of type S.
// Handles are allocated from a monotonic counter starting at 1; the
// value 0 is reserved to mean invalid and is never assigned.
type sessionTable[H ~uint64, S any] struct {
	sync.RWMutex

	// -1 indicates no session cap
	capacity int
	next     uint64
	sessions map[H]S
}

func newSessionTable[H ~uint64, S any](capacity int) *sessionTable[H, S] {
	return &sessionTable[H, S]{
		capacity: capacity,
		sessions: make(map[H]S),
	}
}

// Add inserts session under a freshly allocated handle and returns the
// handle, or false if the table is at capacity.
func (t *sessionTable[H, S]) Add(session S) (H, bool) {
	t.Lock()
	defer t.Unlock()
	if t.capacity != -1 && len(t.sessions) >= t.capacity {
		return 0, false
	}
	t.next++
	handle := H(t.next)
	t.sessions[handle] = session
	return handle, true
}

// Get fetches the session for handle, and returns (session, true) if
// the handle exists. Otherwise, Get returns (zero value, false).
func (t *sessionTable[H, S]) Get(handle H) (S, bool) {
	t.RLock()
	defer t.RUnlock()
	session, ok := t.sessions[handle]
	return session, ok
}

// Delete erases the entry and reports whether it existed.
func (t *sessionTable[H, S]) Delete(handle H) bool {
	t.Lock()
	defer t.Unlock()
	_, ok := t.sessions[handle]
	if !ok { // if the handle's not in the table, no problem
		return false
	}
	delete(t.sessions, handle)
	return true
}

// Len returns the number of live sessions.
func (t *sessionTable[H, S]) Len() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.sessions)
}
