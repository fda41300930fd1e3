package ai

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Provider hides one AI provider's wire protocol behind a single call.
// Implementations are shared by concurrent requests.
type Provider interface {
	// SendPrompt performs exactly one provider round trip. A timeout <= 0
	// uses the provider's configured default.
	SendPrompt(ctx context.Context, prompt string, timeout time.Duration) (*Reply, error)
	// Close releases the provider's connections. It never fails and may be
	// called more than once.
	Close()
}

type providerOptions struct {
	logger    *zap.Logger
	transport http.RoundTripper
}

type ProviderOption func(*providerOptions)

func WithLogger(logger *zap.Logger) ProviderOption {
	return func(o *providerOptions) {
		o.logger = logger
	}
}

// WithTransport replaces the base round tripper under the provider's hooks.
func WithTransport(rt http.RoundTripper) ProviderOption {
	return func(o *providerOptions) {
		o.transport = rt
	}
}

type providerConstructor func(Settings, providerOptions) (Provider, error)

var providers = map[string]providerConstructor{
	ProviderOpenAI: newOpenAIProvider,
}

// SupportedProviders lists the provider names NewProvider accepts.
func SupportedProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider builds the provider selected by settings.Provider. It fails
// before any network activity when the provider is unknown or its
// credential is missing.
func NewProvider(settings Settings, opts ...ProviderOption) (Provider, error) {
	o := providerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	name := strings.ToLower(strings.TrimSpace(settings.Provider))
	if name == "" {
		name = ProviderOpenAI
	}
	ctor, ok := providers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedProvider, "ai provider '%s' is not implemented", name)
	}
	settings.Provider = name
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	return ctor(settings, o)
}
