package ai

import "strings"

// BuildPrompt returns message unchanged when there is no context. Otherwise
// it renders each entry as "key: value", then a blank line and "User: <message>".
func BuildPrompt(message string, context PromptContext) string {
	if len(context) == 0 {
		return message
	}

	var b strings.Builder
	for i, e := range context {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Key)
		b.WriteString(": ")
		b.WriteString(e.Value)
	}
	b.WriteString("\n\nUser: ")
	b.WriteString(message)
	return b.String()
}
