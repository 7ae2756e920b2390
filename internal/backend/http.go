package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/resume-studio/internal/types"
)

// DefaultTimeout is the default HTTP request timeout for backend calls.
const DefaultTimeout = 120 * time.Second

// HTTPClient talks to the resume-studio backend over JSON/HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient substitutes the underlying http.Client (used by tests).
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// NewHTTPClient creates a backend client for the given base URL.
// apiKey, when set, is sent as a bearer token on every request.
func NewHTTPClient(baseURL, apiKey string, opts ...HTTPOption) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the common wrapper on every backend response.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type providersResponse struct {
	envelope
	Providers []string `json:"providers"`
}

type modelsResponse struct {
	envelope
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

type costResponse struct {
	envelope
	Cost    float64 `json:"cost"`
	Display string  `json:"display"`
}

type analyzeResponse struct {
	envelope
	Analysis *types.JobAnalysis `json:"analysis,omitempty"`
}

type tailorResponse struct {
	envelope
	TailoredResume *types.ResumeData `json:"tailored_resume,omitempty"`
}

type coverLetterResponse struct {
	envelope
	BodyContent string `json:"body_content"`
}

type suggestionsResponse struct {
	envelope
	Content string `json:"content"`
}

// TestCredential verifies a provider credential server-side.
func (c *HTTPClient) TestCredential(ctx context.Context, provider, credential, model string) error {
	body := map[string]string{"provider": provider, "credential": credential}
	if model != "" {
		body["model"] = model
	}
	var resp envelope
	if err := c.do(ctx, http.MethodPost, "/v1/credentials/test", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &PartialResponseError{Op: "test credential", Message: resp.Error}
	}
	return nil
}

// ListProviders returns the ordered provider catalog.
func (c *HTTPClient) ListProviders(ctx context.Context) ([]string, error) {
	var resp providersResponse
	if err := c.do(ctx, http.MethodGet, "/v1/providers", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &PartialResponseError{Op: "list providers", Message: resp.Error}
	}
	return resp.Providers, nil
}

// ListModels returns the model catalog and recommended default for a provider.
func (c *HTTPClient) ListModels(ctx context.Context, provider string) (ModelList, error) {
	var resp modelsResponse
	path := "/v1/providers/" + url.PathEscape(provider) + "/models"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return ModelList{}, err
	}
	if !resp.Success {
		return ModelList{}, &PartialResponseError{Op: "list models", Message: resp.Error}
	}
	return ModelList{Models: resp.Models, Default: resp.Default}, nil
}

// GetCost returns the server-computed running spend.
func (c *HTTPClient) GetCost(ctx context.Context) (Cost, error) {
	var resp costResponse
	if err := c.do(ctx, http.MethodGet, "/v1/cost", nil, &resp); err != nil {
		return Cost{}, err
	}
	if !resp.Success {
		return Cost{}, &PartialResponseError{Op: "get cost", Message: resp.Error}
	}
	return Cost{Total: resp.Cost, Display: resp.Display}, nil
}

// AnalyzeJob produces a job-fit analysis.
func (c *HTTPClient) AnalyzeJob(ctx context.Context, req AnalyzeRequest) (*types.JobAnalysis, error) {
	var resp analyzeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/analyze", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Analysis == nil {
		return nil, &PartialResponseError{Op: "analyze job", Message: resp.Error}
	}
	return resp.Analysis, nil
}

// TailorResume produces a resume tailored to the job description.
func (c *HTTPClient) TailorResume(ctx context.Context, req TailorRequest) (*types.ResumeData, error) {
	var resp tailorResponse
	if err := c.do(ctx, http.MethodPost, "/v1/tailor", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.TailoredResume == nil {
		return nil, &PartialResponseError{Op: "tailor resume", Message: resp.Error}
	}
	return resp.TailoredResume, nil
}

// GenerateCoverLetter produces cover-letter body text.
func (c *HTTPClient) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (string, error) {
	var resp coverLetterResponse
	if err := c.do(ctx, http.MethodPost, "/v1/cover-letter", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &PartialResponseError{Op: "generate cover letter", Message: resp.Error}
	}
	return resp.BodyContent, nil
}

// ImprovementSuggestions produces improvement-suggestion text.
func (c *HTTPClient) ImprovementSuggestions(ctx context.Context, req SuggestionsRequest) (string, error) {
	var resp suggestionsResponse
	if err := c.do(ctx, http.MethodPost, "/v1/suggestions", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &PartialResponseError{Op: "improvement suggestions", Message: resp.Error}
	}
	return resp.Content, nil
}

// do executes one backend round-trip, decoding the JSON response into out.
// Any failure to reach the backend or decode its response is a *TransportError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Cause: fmt.Errorf("encoding request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Cause: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, Cause: fmt.Errorf("HTTP status %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: op, Cause: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
