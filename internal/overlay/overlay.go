// Package overlay holds the editable renderings of generated artifacts.
//
// Each artifact kind carries two values: the raw generated result and a
// user-editable text rendering of it. The two setters are deliberately
// separate so the pipeline can never clobber a user edit by accident: only a
// new successful generation for the same kind overwrites the edited text.
package overlay

import (
	"sync"

	"github.com/jonathan/resume-studio/internal/types"
)

// Generated is the raw outcome of a generation stage as stored per kind.
type Generated struct {
	Success      bool
	Payload      any
	ErrorMessage string
}

// State is a read-only snapshot of one artifact's overlay.
type State struct {
	HasGenerated bool   `json:"has_generated"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
	EditedText   string `json:"edited_text,omitempty"`
	HasEdited    bool   `json:"has_edited"`
}

type artifactState struct {
	generated  *Generated
	editedText string
	hasEdited  bool
}

// Manager holds overlay state for every artifact kind.
type Manager struct {
	mu     sync.Mutex
	states map[types.ArtifactKind]*artifactState
}

// NewManager creates a manager with empty state for all kinds.
func NewManager() *Manager {
	m := &Manager{states: make(map[types.ArtifactKind]*artifactState)}
	for _, kind := range types.AllKinds() {
		m.states[kind] = &artifactState{}
	}
	return m
}

// SetGenerated stores the raw result of a generation stage. When the result is
// successful the edited text for that kind is overwritten with the canonical
// rendering of the new payload (last generation wins). Failed results leave
// any prior edited text alone.
//
// This is the pipeline-only setter; UI edits go through SetEdited.
func (m *Manager) SetGenerated(kind types.ArtifactKind, g Generated) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(kind)
	st.generated = &g
	if g.Success {
		st.editedText = Render(kind, g.Payload)
		st.hasEdited = true
	}
}

// SetEdited stores a user edit. Never invoked by the pipeline.
func (m *Manager) SetEdited(kind types.ArtifactKind, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(kind)
	st.editedText = text
	st.hasEdited = true
}

// EditedText returns the editable rendering for a kind.
func (m *Manager) EditedText(kind types.ArtifactKind) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(kind)
	return st.editedText, st.hasEdited
}

// Generated returns the raw generated result for a kind, if any.
func (m *Manager) Generated(kind types.ArtifactKind) (Generated, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(kind)
	if st.generated == nil {
		return Generated{}, false
	}
	return *st.generated, true
}

// Clear resets one kind to empty.
func (m *Manager) Clear(kind types.ArtifactKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[kind] = &artifactState{}
}

// ClearAll resets every kind to empty.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kind := range types.AllKinds() {
		m.states[kind] = &artifactState{}
	}
}

// Snapshot returns the overlay state for every kind.
func (m *Manager) Snapshot() map[types.ArtifactKind]State {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[types.ArtifactKind]State, len(m.states))
	for kind, st := range m.states {
		s := State{
			EditedText: st.editedText,
			HasEdited:  st.hasEdited,
		}
		if st.generated != nil {
			s.HasGenerated = true
			s.Success = st.generated.Success
			s.ErrorMessage = st.generated.ErrorMessage
		}
		out[kind] = s
	}
	return out
}

func (m *Manager) state(kind types.ArtifactKind) *artifactState {
	st, ok := m.states[kind]
	if !ok {
		st = &artifactState{}
		m.states[kind] = st
	}
	return st
}
