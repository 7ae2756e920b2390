package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/types"
)

// fakeClient implements backend.Client with recorded call counts.
type fakeClient struct {
	mu            sync.Mutex
	providerCalls int
	modelCalls    int

	providers []string
	models    backend.ModelList
	modelsErr error

	credCh chan string
}

func (f *fakeClient) TestCredential(_ context.Context, provider, _, _ string) error {
	if f.credCh != nil {
		f.credCh <- provider
	}
	return nil
}

func (f *fakeClient) ListProviders(_ context.Context) ([]string, error) {
	f.mu.Lock()
	f.providerCalls++
	f.mu.Unlock()
	return f.providers, nil
}

func (f *fakeClient) ListModels(_ context.Context, _ string) (backend.ModelList, error) {
	f.mu.Lock()
	f.modelCalls++
	f.mu.Unlock()
	if f.modelsErr != nil {
		return backend.ModelList{}, f.modelsErr
	}
	return f.models, nil
}

func (f *fakeClient) GetCost(_ context.Context) (backend.Cost, error) {
	return backend.Cost{Display: "$0.00"}, nil
}

func (f *fakeClient) AnalyzeJob(_ context.Context, _ backend.AnalyzeRequest) (*types.JobAnalysis, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) TailorResume(_ context.Context, _ backend.TailorRequest) (*types.ResumeData, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) GenerateCoverLetter(_ context.Context, _ backend.CoverLetterRequest) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeClient) ImprovementSuggestions(_ context.Context, _ backend.SuggestionsRequest) (string, error) {
	return "", errors.New("not implemented")
}

func TestProvidersCachedForSession(t *testing.T) {
	fake := &fakeClient{providers: []string{"Ollama (Local)", "OpenAI", "gemini"}}
	r := New(fake)

	first, err := r.Providers(context.Background())
	require.NoError(t, err)
	second, err := r.Providers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.providerCalls, "catalog should be fetched once per session")
}

func TestSelectProviderAdoptsDefaultModel(t *testing.T) {
	fake := &fakeClient{models: backend.ModelList{Models: []string{"m-lite", "m-pro"}, Default: "m-pro"}}
	r := New(fake)

	r.SelectProvider(context.Background(), "OpenAI")

	provider, model := r.Active()
	assert.Equal(t, "OpenAI", provider)
	assert.Equal(t, "m-pro", model)
	assert.Equal(t, []string{"m-lite", "m-pro"}, r.Models().Models)
}

func TestSelectProviderModelCatalogFailureIsSilent(t *testing.T) {
	fake := &fakeClient{modelsErr: errors.New("backend down")}
	r := New(fake)

	r.SelectProvider(context.Background(), "OpenAI")

	provider, model := r.Active()
	assert.Equal(t, "OpenAI", provider)
	assert.Empty(t, model, "model invalidated until a catalog arrives")
	assert.Empty(t, r.Models().Models)
}

func TestSelectModelIsLocalOnly(t *testing.T) {
	fake := &fakeClient{models: backend.ModelList{Models: []string{"a"}, Default: "a"}}
	r := New(fake)
	r.SelectProvider(context.Background(), "OpenAI")
	before := fake.modelCalls

	r.SelectModel("custom-model")

	_, model := r.Active()
	assert.Equal(t, "custom-model", model)
	assert.Equal(t, before, fake.modelCalls, "SelectModel must not touch the network")
}

func TestSelectProviderSyncsCredentialInBackground(t *testing.T) {
	fake := &fakeClient{
		models: backend.ModelList{Default: "m"},
		credCh: make(chan string, 1),
	}
	r := New(fake)
	r.SetCredential("sk-test")

	r.SelectProvider(context.Background(), "OpenAI")

	select {
	case provider := <-fake.credCh:
		assert.Equal(t, "OpenAI", provider)
	case <-time.After(2 * time.Second):
		t.Fatal("credential sync was never issued")
	}
}

func TestNoCredentialSyncWithoutCredential(t *testing.T) {
	fake := &fakeClient{
		models: backend.ModelList{Default: "m"},
		credCh: make(chan string, 1),
	}
	r := New(fake)

	r.SelectProvider(context.Background(), "OpenAI")

	select {
	case <-fake.credCh:
		t.Fatal("credential sync issued with no credential set")
	case <-time.After(100 * time.Millisecond):
	}
}
