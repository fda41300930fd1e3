package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

const (
	ProviderOpenAI       = "openai"
	DefaultOpenAIBaseURL = "https://api.openai.com"
	DefaultTimeout       = 15 * time.Second
)

var (
	ErrUnsupportedProvider = errors.New("unsupported ai provider")
	ErrMissingCredential   = errors.New("missing ai provider credential")
	ErrEmptyMessage        = errors.New("message is required")
	ErrEmptyPrompt         = errors.New("prompt must not be empty")
)

// Settings are read once, when a provider is constructed.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	// Timeout applies to SendPrompt calls that pass no timeout of their own.
	Timeout time.Duration
}

// ContextEntry is one rendered line of prompt context.
type ContextEntry struct {
	Key   string
	Value string
}

// Entry renders value the way BuildPrompt prints it: strings verbatim,
// everything else as compact JSON.
func Entry(key string, value any) ContextEntry {
	switch v := value.(type) {
	case string:
		return ContextEntry{Key: key, Value: v}
	case fmt.Stringer:
		return ContextEntry{Key: key, Value: v.String()}
	}
	b, err := json.Marshal(value)
	if err != nil {
		return ContextEntry{Key: key, Value: fmt.Sprint(value)}
	}
	return ContextEntry{Key: key, Value: string(b)}
}

// PromptContext keeps context keys in the order the caller supplied them.
type PromptContext []ContextEntry

func (c *PromptContext) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*c = nil
		return nil
	}
	if !res.IsObject() {
		return errors.New("context must be a JSON object")
	}

	var entries PromptContext
	res.ForEach(func(key, value gjson.Result) bool {
		entries = append(entries, ContextEntry{Key: key.String(), Value: renderJSONValue(value)})
		return true
	})
	*c = entries
	return nil
}

func (c PromptContext) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(e.Key)
		v, _ := json.Marshal(e.Value)
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func renderJSONValue(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.JSON:
		return gjson.Get(v.Raw, "@ugly").Raw
	default:
		return v.Raw
	}
}

type GenerationRequest struct {
	Message string        `json:"message"`
	Context PromptContext `json:"context,omitempty"`
}

// NewGenerationRequest builds a validated request.
func NewGenerationRequest(message string, context ...ContextEntry) (GenerationRequest, error) {
	req := GenerationRequest{Message: message}
	if len(context) > 0 {
		req.Context = PromptContext(context)
	}
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

type GenerationResult struct {
	Reply      string `json:"reply"`
	TokensUsed *int   `json:"tokens_used"`
}

// Reply is the normalized provider answer.
type Reply struct {
	Text       string
	TokensUsed *int
}

const (
	HealthOK    = "ok"
	HealthError = "error"
)

type HealthStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai provider error (status %d): %s", e.StatusCode, e.Body)
}
