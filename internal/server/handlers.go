package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
)

// CreateSessionResponse is the response for POST /sessions.
type CreateSessionResponse struct {
	SessionID  string `json:"session_id"`
	Token      string `json:"token"`
	StatusLine string `json:"status_line"`
}

// GenerateRequest is the request body shared by the four generation routes.
type GenerateRequest struct {
	JobDescription string          `json:"job_description" validate:"required_without=JobURL"`
	JobURL         string          `json:"job_url,omitempty" validate:"omitempty,url"`
	Resume         json.RawMessage `json:"resume" validate:"required"`
	UserPrompt     string          `json:"user_prompt,omitempty"`
}

// SelectProviderRequest is the request body for PUT .../provider.
type SelectProviderRequest struct {
	Provider string `json:"provider" validate:"required"`
}

// SelectModelRequest is the request body for PUT .../model.
type SelectModelRequest struct {
	Model string `json:"model" validate:"required"`
}

// CredentialRequest is the request body for PUT .../credential.
type CredentialRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// EditRequest is the request body for PUT .../overlay/{kind}.
type EditRequest struct {
	Text string `json:"text"`
}

// handleCreateSession creates a new session and mints its token.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	p := s.newSession(r.Context())

	token, err := s.jwtService.GenerateToken(p.Session().ID())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to mint session token")
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateSessionResponse{
		SessionID:  p.Session().ID().String(),
		Token:      token,
		StatusLine: p.Session().StatusLine(),
	})
}

// pipelineFor resolves the addressed pipeline, writing the error response on failure.
func (s *Server) pipelineFor(w http.ResponseWriter, r *http.Request) (*pipeline.Pipeline, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return nil, false
	}
	p, ok := s.sessionPipeline(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return p, true
}

// decodeAndValidate decodes the JSON body into dst and runs struct validation.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// generationInputs turns a GenerateRequest into pipeline inputs, resolving a
// posting URL into text when no description was supplied and validating the
// resume payload against the schema.
func (s *Server) generationInputs(w http.ResponseWriter, r *http.Request, req *GenerateRequest) (pipeline.Inputs, bool) {
	if err := schemas.ValidateResume(req.Resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return pipeline.Inputs{}, false
	}

	var resume types.ResumeData
	if err := json.Unmarshal(req.Resume, &resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume payload: "+err.Error())
		return pipeline.Inputs{}, false
	}

	description := req.JobDescription
	if description == "" && req.JobURL != "" {
		opts := ingestion.DefaultOptions()
		opts.UseBrowser = s.cfg.UseBrowser
		text, err := ingestion.FromURL(r.Context(), req.JobURL, opts)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to ingest posting: "+err.Error())
			return pipeline.Inputs{}, false
		}
		description = text
	}

	return pipeline.Inputs{
		JobDescription: description,
		JobURL:         req.JobURL,
		Resume:         resume,
		UserPrompt:     req.UserPrompt,
	}, true
}

// operationResponse is the response for the generation routes.
type operationResponse struct {
	Result any              `json:"result"`
	State  session.Snapshot `json:"state"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.handleOperation(w, r, func(p *pipeline.Pipeline, in pipeline.Inputs) any {
		return p.Analyze(r.Context(), in)
	})
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	s.handleOperation(w, r, func(p *pipeline.Pipeline, in pipeline.Inputs) any {
		return p.Tailor(r.Context(), in)
	})
}

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	s.handleOperation(w, r, func(p *pipeline.Pipeline, in pipeline.Inputs) any {
		return p.DraftCoverLetter(r.Context(), in)
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	s.handleOperation(w, r, func(p *pipeline.Pipeline, in pipeline.Inputs) any {
		return p.SuggestImprovements(r.Context(), in)
	})
}

func (s *Server) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	s.handleOperation(w, r, func(p *pipeline.Pipeline, in pipeline.Inputs) any {
		return p.GenerateAll(r.Context(), in)
	})
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request, run func(*pipeline.Pipeline, pipeline.Inputs) any) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	in, ok := s.generationInputs(w, r, &req)
	if !ok {
		return
	}

	result := run(p, in)
	s.jsonResponse(w, http.StatusOK, operationResponse{
		Result: result,
		State:  p.Session().Snapshot(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	providers, err := p.Session().Registry().Providers(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to list providers: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"providers": providers})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, p.Session().Registry().Models())
}

func (s *Server) handleSelectProvider(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	var req SelectProviderRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	p.Session().Registry().SelectProvider(r.Context(), req.Provider)
	p.RecomputeStatus()
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleSelectModel(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	var req SelectModelRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	p.Session().Registry().SelectModel(req.Model)
	p.RecomputeStatus()
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	var req CredentialRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	p.Session().Registry().SetCredential(req.Credential)
	p.RecomputeStatus()
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleTestCredential(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	if err := p.TestCredential(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   err.Error(),
			"state":   p.Session().Snapshot(),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"state":   p.Session().Snapshot(),
	})
}

func (s *Server) handleSetEdited(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	kind := types.ArtifactKind(r.PathValue("kind"))
	if !kind.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "Unknown artifact kind: "+string(kind))
		return
	}
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	p.Session().Overlay().SetEdited(kind, req.Text)
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleClearError(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	p.Session().ClearError()
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleClearResults(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	p.Session().ClearResults()
	p.RecomputeStatus()
	if s.store != nil {
		if err := s.store.DeleteArtifacts(r.Context(), p.Session().ID()); err != nil {
			log.Printf("Warning: failed to delete persisted artifacts: %v", err)
		}
	}
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleClearForm(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	p.Session().ClearForm()
	s.jsonResponse(w, http.StatusOK, p.Session().Snapshot())
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipelineFor(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Persistence is not configured")
		return
	}
	artifacts, err := s.store.LoadArtifacts(r.Context(), p.Session().ID())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load artifacts: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"artifacts": artifacts})
}
