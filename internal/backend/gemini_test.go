package backend

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare json", in: `{"a": 1}`, want: `{"a": 1}`},
		{name: "json fence", in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "plain fence", in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding whitespace", in: "  \n{\"a\": 1}\n  ", want: `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONBlock(tt.in))
		})
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text("hello "), genai.Text("world")},
			},
		}},
	}
	text, err := extractText(resp)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	_, err = extractText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.Error(t, err)
}

func TestRecordUsageAccumulatesSpend(t *testing.T) {
	c := &GeminiClient{}
	resp := &genai.GenerateContentResponse{
		UsageMetadata: &genai.UsageMetadata{
			PromptTokenCount:     1_000_000,
			CandidatesTokenCount: 1_000_000,
		},
	}

	c.recordUsage("gemini-2.5-flash", resp)
	cost, err := c.GetCost(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.30+2.50, cost.Total, 1e-9)
	assert.Equal(t, "$2.8000", cost.Display)

	// Unknown models fall back to the default pricing.
	c.recordUsage("unknown-model", resp)
	cost, err = c.GetCost(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 2*(0.30+2.50), cost.Total, 1e-9)
}

func TestRecordUsageIgnoresMissingMetadata(t *testing.T) {
	c := &GeminiClient{}
	c.recordUsage("gemini-2.5-flash", nil)
	c.recordUsage("gemini-2.5-flash", &genai.GenerateContentResponse{})

	cost, err := c.GetCost(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cost.Total)
}

func TestGeminiCatalogIsLocal(t *testing.T) {
	c := &GeminiClient{}

	providers, err := c.ListProviders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{GeminiProvider}, providers)

	list, err := c.ListModels(context.Background(), GeminiProvider)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", list.Default)
	assert.Contains(t, list.Models, "gemini-2.5-pro")

	_, err = c.ListModels(context.Background(), "openai")
	assert.Error(t, err)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "")
	assert.Error(t, err)
}
