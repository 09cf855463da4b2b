package llm

import (
	"context"

	"go.uber.org/zap"
)

// Registry is the ordered set of providers the gateway falls through.
// It is constructed once at startup from configuration and never mutated.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry with the given provider order
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// Providers returns the configured provider chain in order
func (r *Registry) Providers() []Provider {
	return r.providers
}

// Gateway executes completion requests against the registry's providers in
// their fixed configured order, returning the first success. It never
// retries a provider and never modifies the request between attempts; the
// chain is the system's only resilience mechanism.
type Gateway struct {
	registry *Registry
	logger   *zap.Logger
}

// NewGateway creates a gateway over the given registry
func NewGateway(registry *Registry, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{registry: registry, logger: logger}
}

// GenerateCompletion tries each provider in order with the same request. On
// any provider error it logs the failure and moves to the next provider. If
// every provider fails it returns a single *AllProvidersFailedError; the
// gateway never fabricates content.
func (g *Gateway) GenerateCompletion(ctx context.Context, req CompletionRequest) (string, error) {
	attempts := make([]*ProviderError, 0, len(g.registry.Providers()))

	for _, p := range g.registry.Providers() {
		text, err := p.Complete(ctx, req)
		if err != nil {
			g.logger.Warn("provider attempt failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			attempts = append(attempts, &ProviderError{Provider: p.Name(), Cause: err})
			continue
		}

		g.logger.Info("provider attempt succeeded",
			zap.String("provider", p.Name()),
		)
		return text, nil
	}

	return "", &AllProvidersFailedError{Attempts: attempts}
}
