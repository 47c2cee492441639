package annotate

import (
	"sync"

	"github.com/google/uuid"
)

// ViewState is the viewport configuration a session restores when the
// annotation view is reopened.
type ViewState struct {
	// Top is the first visible document offset.
	Top int

	// Cursor is the cursor offset.
	Cursor int
}

// Session owns the per-editing-session state that must not be shared
// across documents: the last copy payload and the saved view state.
// One session exists per open document; nothing here is process-wide,
// so concurrent documents cannot corrupt each other's clipboard or
// viewport.
type Session struct {
	mu      sync.Mutex
	id      string
	payload *Payload
	view    ViewState
	hasView bool
}

// NewSession creates a session with a fresh identity.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the session identity.
func (s *Session) ID() string {
	return s.id
}

// SetPayload stores the payload from the most recent copy or cut,
// replacing any previous one.
func (s *Session) SetPayload(p *Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = p
}

// Payload returns the current payload, or nil when nothing has been
// captured.
func (s *Session) Payload() *Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

// SaveView records the viewport configuration to restore later.
func (s *Session) SaveView(v ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	s.hasView = true
}

// RestoreView returns the saved viewport configuration.
func (s *Session) RestoreView() (ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.hasView
}
