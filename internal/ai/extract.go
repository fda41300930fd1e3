package ai

import "github.com/tidwall/gjson"

// extractReply normalizes a provider body. The bool reports whether a reply
// field was present; a miss is not an error.
//
// A non-empty chat completion content wins. Otherwise a legacy choices.0.text
// string is used as is, even when empty. The flat output field is consulted
// only when neither choice field is a string.
func extractReply(body []byte) (Reply, bool) {
	data := gjson.ParseBytes(body)

	var reply Reply
	matched := false
	if choice := data.Get("choices.0"); choice.IsObject() {
		if v := choice.Get("message.content"); v.Type == gjson.String && v.Str != "" {
			reply.Text, matched = v.Str, true
		} else if v := choice.Get("text"); v.Type == gjson.String {
			reply.Text, matched = v.Str, true
		}
	}
	if !matched {
		if v := data.Get("output"); v.Type == gjson.String {
			reply.Text, matched = v.Str, true
		}
	}

	if usage := data.Get("usage"); usage.IsObject() {
		reply.TokensUsed = usageTokens(usage)
	}

	return reply, matched
}

// usageTokens prefers total_tokens, then prompt_tokens. A reported total of
// zero is kept as zero.
func usageTokens(usage gjson.Result) *int {
	if v := usage.Get("total_tokens"); v.Type == gjson.Number && v.Num >= 0 {
		n := int(v.Int())
		return &n
	}
	if v := usage.Get("prompt_tokens"); v.Type == gjson.Number && v.Num >= 0 {
		n := int(v.Int())
		return &n
	}
	return nil
}
