package pipeline

import (
	"fmt"
	"strings"
)

// ProjectStatus derives the single human-readable readiness line from the
// current provider configuration and spend. Pure function: no network calls,
// no caching; callers recompute it whenever the inputs may have changed.
func ProjectStatus(provider, model string, hasCredential bool, costDisplay string) string {
	if provider == "" {
		return "Setup needed: choose a provider"
	}
	if credentialRequired(provider) && !hasCredential {
		return fmt.Sprintf("Setup needed: add an API key for %s", provider)
	}
	if model == "" {
		return fmt.Sprintf("Setup needed: select a model for %s", provider)
	}
	return fmt.Sprintf("Ready: %s / %s (spend %s)", provider, model, costDisplay)
}

// credentialRequired reports whether a provider needs an API key. Local
// providers such as Ollama run without one.
func credentialRequired(provider string) bool {
	p := strings.ToLower(provider)
	return !strings.Contains(p, "local") && !strings.Contains(p, "ollama")
}
