// Package backend abstracts the remote generation capability consumed by the pipeline.
package backend

import (
	"context"

	"github.com/jonathan/resume-studio/internal/types"
)

// ModelList is the catalog of models offered by one provider.
type ModelList struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// Cost is the server-computed spend for the current session.
type Cost struct {
	Total   float64 `json:"total"`
	Display string  `json:"display"`
}

// AnalyzeRequest carries the inputs for the job-fit analysis stage.
type AnalyzeRequest struct {
	JobDescription string          `json:"job_description"`
	JobURL         string          `json:"job_url,omitempty"`
	Resume         types.ResumeData `json:"resume"`
	Model          string          `json:"model,omitempty"`
}

// TailorRequest carries the inputs for the tailored-resume stage.
type TailorRequest struct {
	JobDescription  string             `json:"job_description"`
	Resume          types.ResumeData   `json:"resume"`
	Model           string             `json:"model,omitempty"`
	UserPrompt      string             `json:"user_prompt,omitempty"`
	AnalysisContext *types.JobAnalysis `json:"analysis_context,omitempty"`
}

// CoverLetterRequest carries the inputs for the cover-letter stage.
type CoverLetterRequest struct {
	JobDescription  string             `json:"job_description"`
	Resume          types.ResumeData   `json:"resume"`
	Model           string             `json:"model,omitempty"`
	UserPrompt      string             `json:"user_prompt,omitempty"`
	AnalysisContext *types.JobAnalysis `json:"analysis_context,omitempty"`
}

// SuggestionsRequest carries the inputs for the improvement-suggestions stage.
type SuggestionsRequest struct {
	JobDescription  string             `json:"job_description"`
	Resume          types.ResumeData   `json:"resume"`
	Model           string             `json:"model,omitempty"`
	AnalysisContext *types.JobAnalysis `json:"analysis_context,omitempty"`
}

// Client is the generation capability the orchestrator sequences calls against.
// Implementations translate failures into the error taxonomy in errors.go:
// network problems become *TransportError, backend-reported failures become
// *PartialResponseError with the server message passed through verbatim.
type Client interface {
	// TestCredential verifies a provider credential server-side.
	TestCredential(ctx context.Context, provider, credential, model string) error
	// ListProviders returns the ordered provider catalog.
	ListProviders(ctx context.Context) ([]string, error)
	// ListModels returns the model catalog and recommended default for a provider.
	ListModels(ctx context.Context, provider string) (ModelList, error)
	// GetCost returns the server-computed running spend.
	GetCost(ctx context.Context) (Cost, error)
	// AnalyzeJob produces a job-fit analysis.
	AnalyzeJob(ctx context.Context, req AnalyzeRequest) (*types.JobAnalysis, error)
	// TailorResume produces a resume tailored to the job description.
	TailorResume(ctx context.Context, req TailorRequest) (*types.ResumeData, error)
	// GenerateCoverLetter produces cover-letter body text.
	GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (string, error)
	// ImprovementSuggestions produces improvement-suggestion text.
	ImprovementSuggestions(ctx context.Context, req SuggestionsRequest) (string, error)
}
