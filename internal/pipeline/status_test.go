package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/session"
)

func TestProjectStatus(t *testing.T) {
	tests := []struct {
		name          string
		provider      string
		model         string
		hasCredential bool
		costDisplay   string
		want          string
	}{
		{
			name: "no provider",
			want: "Setup needed: choose a provider",
		},
		{
			name:        "provider without credential",
			provider:    "OpenAI",
			model:       "gpt-4o",
			costDisplay: "$0.00",
			want:        "Setup needed: add an API key for OpenAI",
		},
		{
			name:          "credential but no model",
			provider:      "OpenAI",
			hasCredential: true,
			costDisplay:   "$0.00",
			want:          "Setup needed: select a model for OpenAI",
		},
		{
			name:          "fully configured",
			provider:      "OpenAI",
			model:         "gpt-4o",
			hasCredential: true,
			costDisplay:   "$0.12",
			want:          "Ready: OpenAI / gpt-4o (spend $0.12)",
		},
		{
			name:        "local provider needs no credential",
			provider:    "Ollama (Local)",
			model:       "llama3",
			costDisplay: "$0.00",
			want:        "Ready: Ollama (Local) / llama3 (spend $0.00)",
		},
		{
			name:        "local provider without model",
			provider:    "Ollama (Local)",
			costDisplay: "$0.00",
			want:        "Setup needed: select a model for Ollama (Local)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectStatus(tt.provider, tt.model, tt.hasCredential, tt.costDisplay)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusLineTracksProviderSwitch(t *testing.T) {
	stub := newStub()
	sess := session.New(stub)
	p := New(sess, stub, nil)

	assert.Equal(t, "Setup needed: choose a provider", sess.StatusLine())

	sess.Registry().SelectProvider(context.Background(), "Ollama (Local)")
	p.RecomputeStatus()
	assert.Equal(t, "Ready: Ollama (Local) / m-default (spend $0.00)", sess.StatusLine())

	sess.Registry().SelectProvider(context.Background(), "OpenAI")
	p.RecomputeStatus()
	assert.Equal(t, "Setup needed: add an API key for OpenAI", sess.StatusLine())

	sess.Registry().SetCredential("sk-test")
	p.RecomputeStatus()
	assert.Equal(t, "Ready: OpenAI / m-default (spend $0.00)", sess.StatusLine())
}

func TestValidationErrorFormatting(t *testing.T) {
	err := &ValidationError{Field: "personal_info", Reason: "at least one personal-info field is required"}
	assert.Equal(t, "invalid input: personal_info: at least one personal-info field is required", err.Error())
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(ErrInFlight))
}
