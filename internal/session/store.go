// Package session holds per-user conversational context across independent
// chat requests. Access to a session is serialized per user identifier so one
// user's state transitions stay linearizable even when the transport
// dispatches duplicate requests concurrently, while distinct users proceed in
// parallel.
package session

import (
	"sync"
	"time"

	"github.com/aayushs/campusguide/internal/domain"
)

// State is the current phase of a multi-turn exchange. It determines how the
// next message from the user is interpreted.
type State string

const (
	StateIdle                     State = "idle"
	StateNavigationConfirm        State = "navigation_confirm"
	StateTeacherSelection         State = "teacher_selection"
	StateNavigateToTeacherConfirm State = "navigate_to_teacher_confirm"
)

// Navigation is the payload carried while turn-by-turn instructions are being
// replayed. Step is 0-based and points at the last node the user has
// confirmed reaching, so it never exceeds len(Nodes)-1.
type Navigation struct {
	Nodes        []string
	Instructions []string
	Step         int
}

// Session is one user's dialog context. Exactly one payload field is
// populated for the matching state; the Begin* transitions clear the others
// so stale payloads cannot leak across dialog phases.
type Session struct {
	State        State
	Navigation   *Navigation
	Candidates   []domain.Teacher
	PendingCabin string
}

// BeginNavigation enters turn-by-turn delivery for the given route.
func (s *Session) BeginNavigation(nodes, instructions []string) {
	s.clear()
	s.State = StateNavigationConfirm
	s.Navigation = &Navigation{Nodes: nodes, Instructions: instructions}
}

// BeginSelection enters directory disambiguation over the candidate list.
func (s *Session) BeginSelection(candidates []domain.Teacher) {
	s.clear()
	s.State = StateTeacherSelection
	s.Candidates = candidates
}

// BeginCabinConfirm waits for the user to accept navigation to a cabin.
func (s *Session) BeginCabinConfirm(cabin string) {
	s.clear()
	s.State = StateNavigateToTeacherConfirm
	s.PendingCabin = cabin
}

// Reset returns the session to idle with no payload.
func (s *Session) Reset() {
	s.clear()
	s.State = StateIdle
}

func (s *Session) clear() {
	s.Navigation = nil
	s.Candidates = nil
	s.PendingCabin = ""
}

// clone deep-copies the payload so callers holding a snapshot cannot mutate
// the live session through shared slices or the Navigation pointer.
func (s Session) clone() Session {
	out := s
	if s.Navigation != nil {
		nav := *s.Navigation
		nav.Nodes = append([]string(nil), s.Navigation.Nodes...)
		nav.Instructions = append([]string(nil), s.Navigation.Instructions...)
		out.Navigation = &nav
	}
	if s.Candidates != nil {
		out.Candidates = append([]domain.Teacher(nil), s.Candidates...)
	}
	return out
}

// Store maps user identifiers to sessions for the lifetime of the process.
// Sessions are created lazily in the idle state on first contact. A non-zero
// TTL resets sessions that have been untouched for longer than the TTL; the
// check happens lazily on the next access.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*slot
	ttl      time.Duration
	nowFn    func() time.Time
}

type slot struct {
	mu      sync.Mutex
	session Session
	touched time.Time
}

// NewStore builds an empty store. ttl <= 0 disables idle eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*slot),
		ttl:      ttl,
		nowFn:    time.Now,
	}
}

// WithClock overrides the time source, used in tests.
func (st *Store) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		st.nowFn = nowFn
	}
}

// Update runs fn with exclusive access to the user's session. Mutations made
// by fn persist. The store lock is released before fn runs, so slow work in
// fn (graph queries, routing) blocks only this user.
func (st *Store) Update(userID string, fn func(*Session)) {
	s, stale := st.acquire(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if stale {
		s.session.Reset()
	}
	fn(&s.session)
}

// Snapshot returns a copy of the user's session without creating one.
func (st *Store) Snapshot(userID string) (Session, bool) {
	st.mu.Lock()
	s, ok := st.sessions[userID]
	st.mu.Unlock()
	if !ok {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.clone(), true
}

// Len reports the number of tracked sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// acquire returns the user's slot, creating it if absent, and reports whether
// the session has outlived the TTL. The reset itself happens inside Update's
// slot-locked section; taking the slot lock here would hold the store lock
// across an in-flight update and stall every other user.
func (st *Store) acquire(userID string) (*slot, bool) {
	now := st.nowFn()

	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[userID]
	if !ok {
		s = &slot{session: Session{State: StateIdle}, touched: now}
		st.sessions[userID] = s
		return s, false
	}

	stale := st.ttl > 0 && now.Sub(s.touched) > st.ttl
	s.touched = now
	return s, stale
}
