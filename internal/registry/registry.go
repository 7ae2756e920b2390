// Package registry tracks the provider/model catalog and the active provider configuration.
package registry

import (
	"context"
	"log"
	"sync"

	"github.com/jonathan/resume-studio/internal/backend"
)

// Registry caches the provider catalog for the session and holds the single
// active provider configuration: provider, model and credential.
//
// Switching providers invalidates the model until the new provider's default
// is adopted, and kicks off a best-effort credential sync in the background.
type Registry struct {
	client backend.Client

	mu              sync.Mutex
	providers       []string
	providersLoaded bool
	models          backend.ModelList

	provider   string
	model      string
	credential string
}

// New creates a registry backed by the given client.
func New(client backend.Client) *Registry {
	return &Registry{client: client}
}

// Providers returns the provider catalog, fetched once and cached for the session.
func (r *Registry) Providers(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	if r.providersLoaded {
		cached := append([]string(nil), r.providers...)
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	providers, err := r.client.ListProviders(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.providers = providers
	r.providersLoaded = true
	cached := append([]string(nil), r.providers...)
	r.mu.Unlock()
	return cached, nil
}

// Models returns the model catalog for the active provider as of the last
// SelectProvider call.
func (r *Registry) Models() backend.ModelList {
	r.mu.Lock()
	defer r.mu.Unlock()
	return backend.ModelList{
		Models:  append([]string(nil), r.models.Models...),
		Default: r.models.Default,
	}
}

// SelectProvider makes providerID the active provider, fetches its model
// catalog and adopts the recommended default. A model-catalog fetch failure is
// logged and leaves the catalog empty so provider switching stays responsive.
//
// As a convenience the active credential is synced to the backend in the
// background; failures of that call are swallowed.
func (r *Registry) SelectProvider(ctx context.Context, providerID string) {
	r.mu.Lock()
	r.provider = providerID
	r.model = "" // invalid until the new provider's default is known
	credential := r.credential
	r.mu.Unlock()

	models, err := r.client.ListModels(ctx, providerID)
	if err != nil {
		log.Printf("listing models for provider %s failed: %v", providerID, err)
		models = backend.ModelList{}
	}

	r.mu.Lock()
	// Selection may have moved on while the catalog was in flight.
	if r.provider == providerID {
		r.models = models
		r.model = models.Default
	}
	r.mu.Unlock()

	if credential != "" {
		go func() {
			if err := r.client.TestCredential(context.Background(), providerID, credential, models.Default); err != nil {
				log.Printf("background credential sync for %s failed: %v", providerID, err)
			}
		}()
	}
}

// SelectModel makes modelID the active model. Pure local state, no network effect.
func (r *Registry) SelectModel(modelID string) {
	r.mu.Lock()
	r.model = modelID
	r.mu.Unlock()
}

// SetCredential stores the credential for the active provider.
func (r *Registry) SetCredential(credential string) {
	r.mu.Lock()
	r.credential = credential
	r.mu.Unlock()
}

// Active returns the active provider and model identifiers.
func (r *Registry) Active() (provider, model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.provider, r.model
}

// Credential returns the stored credential for the active provider.
func (r *Registry) Credential() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.credential
}

// HasCredential reports whether a credential is set.
func (r *Registry) HasCredential() bool {
	return r.Credential() != ""
}
