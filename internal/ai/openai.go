package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/logging"
)

const (
	openAIChatPath    = "/v1/chat/completions"
	openAITemperature = 0.2
	openAIMaxTokens   = 1024

	maxErrorBodyBytes = 4 << 10
)

type OpenAIProvider struct {
	model    string
	apiKey   string
	endpoint string
	timeout  time.Duration

	client *http.Client
	logger *zap.Logger

	closeOnce sync.Once
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func newOpenAIProvider(settings Settings, o providerOptions) (Provider, error) {
	if settings.APIKey == "" {
		return nil, errors.Wrap(ErrMissingCredential, "OPENAI_API_KEY is required when AI_PROVIDER=openai")
	}

	base := settings.BaseURL
	if base == "" {
		base = DefaultOpenAIBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid OPENAI_API_BASE %q", sanitizeRawURL(base))
	}

	rt := o.transport
	if rt == nil {
		if t, ok := http.DefaultTransport.(*http.Transport); ok {
			rt = t.Clone()
		} else {
			rt = http.DefaultTransport
		}
	}

	return &OpenAIProvider{
		model:    settings.Model,
		apiKey:   settings.APIKey,
		endpoint: strings.TrimRight(u.String(), "/") + openAIChatPath,
		timeout:  settings.Timeout,
		client: &http.Client{
			Transport: &hookTransport{base: rt, logger: o.logger},
		},
		logger: o.logger,
	}, nil
}

func (p *OpenAIProvider) SendPrompt(ctx context.Context, prompt string, timeout time.Duration) (*Reply, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if timeout <= 0 {
		timeout = p.timeout
	}
	log := logging.FromContext(ctx, p.logger)

	body, err := json.Marshal(openAIRequest{
		Model:       p.model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: openAITemperature,
		MaxTokens:   openAIMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	log.Info("sending prompt to ai provider", zap.String("provider", ProviderOpenAI), zap.String("model", p.model))
	safeURL := sanitizeRawURL(p.endpoint)
	start := time.Now()

	resp, err := p.client.Do(httpReq)
	if err != nil {
		log.Error("ai_http_request_error",
			zap.String("method", http.MethodPost),
			zap.String("url", safeURL),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
		log.Error("ai_http_request_error",
			zap.String("method", http.MethodPost),
			zap.String("url", safeURL),
			zap.Int("status_code", resp.StatusCode),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.Error(statusErr),
		)
		return nil, statusErr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("ai_http_request_error",
			zap.String("method", http.MethodPost),
			zap.String("url", safeURL),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.Error(err),
		)
		return nil, err
	}
	if !json.Valid(respBody) {
		err := errors.Newf("ai provider returned a non-JSON body (status %d)", resp.StatusCode)
		log.Error("ai_http_request_error",
			zap.String("method", http.MethodPost),
			zap.String("url", safeURL),
			zap.Int("status_code", resp.StatusCode),
			zap.Error(err),
		)
		return nil, err
	}

	reply, matched := extractReply(respBody)
	if !matched {
		log.Warn("ai_response_unrecognized_shape",
			zap.String("url", safeURL),
			zap.Int("status_code", resp.StatusCode),
		)
	}
	return &reply, nil
}

func (p *OpenAIProvider) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.closeOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("error closing ai adapter http client", zap.Any("panic", r))
			}
		}()
		p.client.CloseIdleConnections()
		p.logger.Info("ai adapter http client closed", zap.String("provider", ProviderOpenAI))
	})
}
