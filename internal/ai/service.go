package ai

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/logging"
)

// Factory builds the provider the service delegates to.
type Factory func(Settings) (Provider, error)

// Service owns at most one live provider for the life of the process. The
// provider is built on first use and released by Shutdown.
type Service struct {
	settings Settings
	factory  Factory
	logger   *zap.Logger

	mu       sync.Mutex
	provider Provider
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFactory overrides how the provider is built.
func WithFactory(f Factory) ServiceOption {
	return func(s *Service) {
		s.factory = f
	}
}

func NewService(settings Settings, opts ...ServiceOption) *Service {
	s := &Service{settings: settings, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.factory == nil {
		logger := s.logger
		s.factory = func(settings Settings) (Provider, error) {
			return NewProvider(settings, WithLogger(logger))
		}
	}
	return s
}

// Generate builds the prompt and forwards it to the provider. Construction
// and provider errors are returned as-is; there is no retry.
func (s *Service) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.adapter()
	if err != nil {
		return nil, err
	}

	reply, err := p.SendPrompt(ctx, BuildPrompt(req.Message, req.Context), 0)
	if err != nil {
		return nil, err
	}
	return &GenerationResult{Reply: reply.Text, TokensUsed: reply.TokensUsed}, nil
}

// Health reports whether a provider can be built. It never calls the
// provider.
func (s *Service) Health(ctx context.Context) HealthStatus {
	if _, err := s.adapter(); err != nil {
		logging.FromContext(ctx, s.logger).Warn("ai health check failed", zap.Error(err))
		return HealthStatus{Status: HealthError, Reason: err.Error()}
	}
	return HealthStatus{Status: HealthOK}
}

// Shutdown closes the provider, if any. The next Generate builds a new one.
func (s *Service) Shutdown() {
	s.mu.Lock()
	p := s.provider
	s.provider = nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	p.Close()
	s.logger.Info("ai service shut down")
}

func (s *Service) adapter() (Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil {
		return s.provider, nil
	}
	p, err := s.factory(s.settings)
	if err != nil {
		return nil, err
	}
	s.provider = p
	return p, nil
}
