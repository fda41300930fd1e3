package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReply(t *testing.T) {
	intp := func(n int) *int { return &n }

	tests := []struct {
		name    string
		body    string
		reply   string
		tokens  *int
		matched bool
	}{
		{
			name:    "chat completion",
			body:    `{"choices":[{"message":{"content":"X"}}],"usage":{"total_tokens":5}}`,
			reply:   "X",
			tokens:  intp(5),
			matched: true,
		},
		{
			name:    "legacy text",
			body:    `{"choices":[{"text":"T"}]}`,
			reply:   "T",
			matched: true,
		},
		{
			name:    "empty content falls back to text",
			body:    `{"choices":[{"message":{"content":""},"text":"T2"}]}`,
			reply:   "T2",
			matched: true,
		},
		{
			name:    "flat output",
			body:    `{"output":"O","usage":{"prompt_tokens":7}}`,
			reply:   "O",
			tokens:  intp(7),
			matched: true,
		},
		{
			name:    "empty choices falls back to output",
			body:    `{"choices":[],"output":"O2"}`,
			reply:   "O2",
			matched: true,
		},
		{
			name:   "no known shape",
			body:   `{"something":"else"}`,
			reply:  "",
			tokens: nil,
		},
		{
			name:   "total preferred over prompt",
			body:   `{"usage":{"prompt_tokens":3,"total_tokens":9}}`,
			tokens: intp(9),
		},
		{
			name:    "usage not an object",
			body:    `{"output":"O","usage":12}`,
			reply:   "O",
			tokens:  nil,
			matched: true,
		},
		{
			name:  "non-string output ignored",
			body:  `{"output":[{"type":"message"}]}`,
			reply: "",
		},
		{
			name:    "empty text does not fall back to output",
			body:    `{"choices":[{"message":{"content":""},"text":""}],"output":"flat"}`,
			reply:   "",
			matched: true,
		},
		{
			name:    "missing text falls back to output",
			body:    `{"choices":[{"message":{"content":""}}],"output":"flat"}`,
			reply:   "flat",
			matched: true,
		},
		{
			name:   "zero total kept over prompt",
			body:   `{"usage":{"total_tokens":0,"prompt_tokens":7}}`,
			tokens: intp(0),
		},
		{
			name:   "negative total falls back to prompt",
			body:   `{"usage":{"total_tokens":-1,"prompt_tokens":7}}`,
			tokens: intp(7),
		},
		{
			name:   "zero prompt kept",
			body:   `{"usage":{"prompt_tokens":0}}`,
			tokens: intp(0),
		},
		{
			name:  "array body",
			body:  `[1,2,3]`,
			reply: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, matched := extractReply([]byte(tt.body))
			assert.Equal(t, tt.reply, reply.Text)
			assert.Equal(t, tt.tokens, reply.TokensUsed)
			assert.Equal(t, tt.matched, matched)
		})
	}
}
