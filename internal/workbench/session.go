package workbench

import (
	"sync"

	"github.com/udisondev/anvilmerge/internal/model"
)

// View is a player's open anvil window. Implementations are only called
// with the owning session's lock held.
type View interface {
	Show(result *model.Item, cost int)
	Clear()
}

// Sessions serializes view updates per interactive session.
//
// Each computation takes a generation number before it starts; a result is
// only published if no later generation has been published already, so a
// slow computation cannot overwrite a newer one. Unrelated sessions never
// contend on the same lock.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*session
}

type session struct {
	mu        sync.Mutex
	view      View
	next      uint64
	published uint64
}

// NewSessions returns an empty registry.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*session)}
}

// Open registers view under id. Re-opening an existing id replaces the view
// and keeps the generation counter.
func (s *Sessions) Open(id string, view View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[id]; ok {
		sess.mu.Lock()
		sess.view = view
		sess.mu.Unlock()
		return
	}
	s.byID[id] = &session{view: view}
}

// Close forgets the session; pending publishes for it are dropped.
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// View returns the session's view.
func (s *Sessions) View(id string) (View, bool) {
	sess, ok := s.get(id)
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view, true
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Sessions) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	return sess, ok
}

// Begin reserves the next generation for a computation on id.
func (s *Sessions) Begin(id string) (uint64, bool) {
	sess, ok := s.get(id)
	if !ok {
		return 0, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.next++
	return sess.next, true
}

// Publish applies fn to the session's view unless a later generation was
// already published. It reports whether fn ran.
func (s *Sessions) Publish(id string, gen uint64, fn func(View)) bool {
	sess, ok := s.get(id)
	if !ok {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if gen <= sess.published {
		return false
	}
	sess.published = gen
	fn(sess.view)
	return true
}

// MemoryView keeps the last shown state in memory. It backs sessions opened
// through the HTTP bridge.
type MemoryView struct {
	mu     sync.Mutex
	result *model.Item
	cost   int
}

// Show implements View.
func (v *MemoryView) Show(result *model.Item, cost int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = result
	v.cost = cost
}

// Clear implements View.
func (v *MemoryView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = nil
	v.cost = 0
}

// Snapshot returns the shown item (nil when cleared) and its cost.
func (v *MemoryView) Snapshot() (*model.Item, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result, v.cost
}
