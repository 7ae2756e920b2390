// Package session holds the mutable state of one generation session.
//
// All session state lives on one explicitly constructed object with a defined
// lifecycle: created empty at session start, mutated only through pipeline
// operations or user-facing setters, and reset by the explicit clear-results
// action. Clearing form inputs is a separate, narrower action that leaves
// generated artifacts untouched.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/cost"
	"github.com/jonathan/resume-studio/internal/overlay"
	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/types"
)

// Session is the state container the pipeline operates on.
type Session struct {
	id       uuid.UUID
	registry *registry.Registry
	ledger   *cost.Ledger
	overlay  *overlay.Manager

	mu       sync.Mutex
	inFlight map[types.ArtifactKind]bool

	analysis     *types.JobAnalysis
	matchScore   float64
	matchSummary string
	jobURL       string

	lastError        string
	processingStatus string
	statusLine       string

	jobDescription string
	userPrompt     string
}

// Snapshot is a read-only view of the session's observable state.
type Snapshot struct {
	ID               uuid.UUID                           `json:"id"`
	Provider         string                              `json:"provider"`
	Model            string                              `json:"model"`
	HasCredential    bool                                `json:"has_credential"`
	MatchScore       float64                             `json:"match_score"`
	MatchSummary     string                              `json:"match_summary"`
	JobURL           string                              `json:"job_url,omitempty"`
	HasAnalysis      bool                                `json:"has_analysis"`
	CostTotal        float64                             `json:"cost_total"`
	CostDisplay      string                              `json:"cost_display"`
	LastError        string                              `json:"last_error,omitempty"`
	ProcessingStatus string                              `json:"processing_status,omitempty"`
	StatusLine       string                              `json:"status_line"`
	JobDescription   string                              `json:"job_description,omitempty"`
	UserPrompt       string                              `json:"user_prompt,omitempty"`
	InFlight         []types.ArtifactKind                `json:"in_flight,omitempty"`
	Overlay          map[types.ArtifactKind]overlay.State `json:"overlay"`
}

// New creates an empty session backed by the given client.
func New(client backend.Client) *Session {
	return &Session{
		id:       uuid.New(),
		registry: registry.New(client),
		ledger:   cost.New(client),
		overlay:  overlay.NewManager(),
		inFlight: make(map[types.ArtifactKind]bool),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Registry returns the session's provider registry.
func (s *Session) Registry() *registry.Registry { return s.registry }

// Ledger returns the session's cost ledger.
func (s *Session) Ledger() *cost.Ledger { return s.ledger }

// Overlay returns the session's content overlay manager.
func (s *Session) Overlay() *overlay.Manager { return s.overlay }

// TryBegin marks kind as in-flight. It returns false when a request for the
// same kind is already in flight; the caller must not proceed in that case.
func (s *Session) TryBegin(kind types.ArtifactKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[kind] {
		return false
	}
	s.inFlight[kind] = true
	return true
}

// End clears the in-flight flag for kind.
func (s *Session) End(kind types.ArtifactKind) {
	s.mu.Lock()
	delete(s.inFlight, kind)
	s.mu.Unlock()
}

// InFlight reports whether kind has a request in flight.
func (s *Session) InFlight(kind types.ArtifactKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[kind]
}

// SetAnalysis stores a successful analysis and derives the observable
// match-score, match-summary and job-URL fields from it.
func (s *Session) SetAnalysis(a *types.JobAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = a
	if a != nil {
		s.matchScore = a.MatchScore
		s.matchSummary = a.MatchSummary
		s.jobURL = a.JobURL
	} else {
		s.matchScore = 0
		s.matchSummary = ""
		s.jobURL = ""
	}
}

// Analysis returns the last successful analysis, or nil.
func (s *Session) Analysis() *types.JobAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// MatchScore returns the observable match score.
func (s *Session) MatchScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchScore
}

// MatchSummary returns the observable match summary.
func (s *Session) MatchSummary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchSummary
}

// JobURL returns the observable job URL.
func (s *Session) JobURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobURL
}

// SetFailure records a failed operation: the error observable and the
// processing-status string.
func (s *Session) SetFailure(errMsg, processing string) {
	s.mu.Lock()
	s.lastError = errMsg
	s.processingStatus = processing
	s.mu.Unlock()
}

// SetSuccess records a successful operation and clears any prior error.
func (s *Session) SetSuccess(processing string) {
	s.mu.Lock()
	s.lastError = ""
	s.processingStatus = processing
	s.mu.Unlock()
}

// ClearError clears the error observable and processing status.
func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.processingStatus = ""
	s.mu.Unlock()
}

// LastError returns the error observable.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ProcessingStatus returns the processing-status string.
func (s *Session) ProcessingStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processingStatus
}

// SetStatusLine stores the projected readiness line.
func (s *Session) SetStatusLine(line string) {
	s.mu.Lock()
	s.statusLine = line
	s.mu.Unlock()
}

// StatusLine returns the projected readiness line.
func (s *Session) StatusLine() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLine
}

// SetForm stores the form inputs used by the last issued operation.
func (s *Session) SetForm(jobDescription, userPrompt string) {
	s.mu.Lock()
	s.jobDescription = jobDescription
	s.userPrompt = userPrompt
	s.mu.Unlock()
}

// Form returns the stored form inputs.
func (s *Session) Form() (jobDescription, userPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobDescription, s.userPrompt
}

// ClearForm resets the job description and prompt text. Generated artifacts
// are untouched; that is ClearResults' job.
func (s *Session) ClearForm() {
	s.mu.Lock()
	s.jobDescription = ""
	s.userPrompt = ""
	s.mu.Unlock()
}

// ClearResults resets every generated artifact, the derived observables, the
// error state and the cost ledger back to session-start defaults.
func (s *Session) ClearResults() {
	s.mu.Lock()
	s.analysis = nil
	s.matchScore = 0
	s.matchSummary = ""
	s.jobURL = ""
	s.lastError = ""
	s.processingStatus = ""
	s.mu.Unlock()

	s.overlay.ClearAll()
	s.ledger.Reset()
}

// Snapshot assembles the full observable state for the presentation layer.
func (s *Session) Snapshot() Snapshot {
	provider, model := s.registry.Active()
	total, display := s.ledger.Snapshot()

	s.mu.Lock()
	snap := Snapshot{
		ID:               s.id,
		Provider:         provider,
		Model:            model,
		HasCredential:    false, // filled below, outside s.mu
		MatchScore:       s.matchScore,
		MatchSummary:     s.matchSummary,
		JobURL:           s.jobURL,
		HasAnalysis:      s.analysis != nil,
		CostTotal:        total,
		CostDisplay:      display,
		LastError:        s.lastError,
		ProcessingStatus: s.processingStatus,
		StatusLine:       s.statusLine,
		JobDescription:   s.jobDescription,
		UserPrompt:       s.userPrompt,
	}
	for kind := range s.inFlight {
		snap.InFlight = append(snap.InFlight, kind)
	}
	s.mu.Unlock()

	snap.HasCredential = s.registry.HasCredential()
	snap.Overlay = s.overlay.Snapshot()
	return snap
}
