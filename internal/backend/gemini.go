package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-studio/internal/types"
)

// GeminiProvider is the provider identifier for the direct Gemini client.
const GeminiProvider = "gemini"

// geminiModels is the model catalog offered in direct mode.
var geminiModels = ModelList{
	Models:  []string{"gemini-2.5-flash-lite", "gemini-2.5-flash", "gemini-2.5-pro"},
	Default: "gemini-2.5-flash",
}

// geminiPricing maps model name to USD per million input/output tokens.
var geminiPricing = map[string][2]float64{
	"gemini-2.5-flash-lite": {0.10, 0.40},
	"gemini-2.5-flash":      {0.30, 2.50},
	"gemini-2.5-pro":        {1.25, 10.00},
}

// GeminiClient implements Client directly against the Gemini API.
// In this mode there is no separate backend service, so the client is also
// the cost-accounting authority: spend is derived from reported token usage.
type GeminiClient struct {
	client *genai.Client

	mu    sync.Mutex
	spent float64
}

// NewGeminiClient creates a direct Gemini backend client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// TestCredential verifies a Gemini API key by issuing a token-count call.
func (c *GeminiClient) TestCredential(ctx context.Context, provider, credential, model string) error {
	if provider != GeminiProvider {
		return &PartialResponseError{Op: "test credential", Message: fmt.Sprintf("unknown provider %q", provider)}
	}
	probe, err := genai.NewClient(ctx, option.WithAPIKey(credential))
	if err != nil {
		return &TransportError{Op: "test credential", Cause: err}
	}
	defer func() { _ = probe.Close() }()

	if model == "" {
		model = geminiModels.Default
	}
	if _, err := probe.GenerativeModel(model).CountTokens(ctx, genai.Text("ping")); err != nil {
		return &TransportError{Op: "test credential", Cause: err}
	}
	return nil
}

// ListProviders returns the single direct-mode provider.
func (c *GeminiClient) ListProviders(_ context.Context) ([]string, error) {
	return []string{GeminiProvider}, nil
}

// ListModels returns the Gemini model catalog.
func (c *GeminiClient) ListModels(_ context.Context, provider string) (ModelList, error) {
	if provider != GeminiProvider {
		return ModelList{}, &PartialResponseError{Op: "list models", Message: fmt.Sprintf("unknown provider %q", provider)}
	}
	return geminiModels, nil
}

// GetCost returns the accumulated usage-derived spend.
func (c *GeminiClient) GetCost(_ context.Context) (Cost, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Cost{Total: c.spent, Display: fmt.Sprintf("$%.4f", c.spent)}, nil
}

// AnalyzeJob produces a job-fit analysis.
func (c *GeminiClient) AnalyzeJob(ctx context.Context, req AnalyzeRequest) (*types.JobAnalysis, error) {
	prompt, err := analyzePrompt(req)
	if err != nil {
		return nil, &PartialResponseError{Op: "analyze job", Message: err.Error()}
	}

	raw, err := c.generateJSON(ctx, req.Model, prompt)
	if err != nil {
		return nil, err
	}

	var analysis types.JobAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, &PartialResponseError{Op: "analyze job", Message: fmt.Sprintf("model returned malformed analysis: %v", err)}
	}
	if analysis.MatchScore < 0 {
		analysis.MatchScore = 0
	}
	if analysis.MatchScore > 100 {
		analysis.MatchScore = 100
	}
	analysis.JobURL = req.JobURL
	return &analysis, nil
}

// TailorResume produces a resume tailored to the job description.
func (c *GeminiClient) TailorResume(ctx context.Context, req TailorRequest) (*types.ResumeData, error) {
	prompt, err := tailorPrompt(req)
	if err != nil {
		return nil, &PartialResponseError{Op: "tailor resume", Message: err.Error()}
	}

	raw, err := c.generateJSON(ctx, req.Model, prompt)
	if err != nil {
		return nil, err
	}

	var tailored types.ResumeData
	if err := json.Unmarshal([]byte(raw), &tailored); err != nil {
		return nil, &PartialResponseError{Op: "tailor resume", Message: fmt.Sprintf("model returned malformed resume: %v", err)}
	}
	return &tailored, nil
}

// GenerateCoverLetter produces cover-letter body text.
func (c *GeminiClient) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (string, error) {
	prompt, err := coverLetterPrompt(req)
	if err != nil {
		return "", &PartialResponseError{Op: "generate cover letter", Message: err.Error()}
	}
	return c.generateText(ctx, req.Model, prompt)
}

// ImprovementSuggestions produces improvement-suggestion text.
func (c *GeminiClient) ImprovementSuggestions(ctx context.Context, req SuggestionsRequest) (string, error) {
	prompt, err := suggestionsPrompt(req)
	if err != nil {
		return "", &PartialResponseError{Op: "improvement suggestions", Message: err.Error()}
	}
	return c.generateText(ctx, req.Model, prompt)
}

func (c *GeminiClient) generateText(ctx context.Context, model, prompt string) (string, error) {
	return c.generate(ctx, model, prompt, "")
}

func (c *GeminiClient) generateJSON(ctx context.Context, model, prompt string) (string, error) {
	text, err := c.generate(ctx, model, prompt, "application/json")
	if err != nil {
		return "", err
	}
	return cleanJSONBlock(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, modelName, prompt, mimeType string) (string, error) {
	if modelName == "" {
		modelName = geminiModels.Default
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	if mimeType != "" {
		model.ResponseMIMEType = mimeType
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &TransportError{Op: "generate content", Cause: err}
	}
	c.recordUsage(modelName, resp)

	text, err := extractText(resp)
	if err != nil {
		return "", &PartialResponseError{Op: "generate content", Message: err.Error()}
	}
	return text, nil
}

// recordUsage converts reported token usage into spend.
func (c *GeminiClient) recordUsage(model string, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	pricing, ok := geminiPricing[model]
	if !ok {
		pricing = geminiPricing[geminiModels.Default]
	}
	in := float64(resp.UsageMetadata.PromptTokenCount) * pricing[0] / 1e6
	out := float64(resp.UsageMetadata.CandidatesTokenCount) * pricing[1] / 1e6

	c.mu.Lock()
	c.spent += in + out
	c.mu.Unlock()
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
