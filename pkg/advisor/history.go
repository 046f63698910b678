package advisor

import (
	"strings"

	"ai-jobadvisor-be/pkg/store"
)

// RenderHistory flattens chat turns into the "user:/assistant:" text
// block the prompt templates expect.
func RenderHistory(history []store.ChatTurn) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString("user: ")
		b.WriteString(turn.User)
		b.WriteString("\n")
		if turn.Assistant != "" {
			b.WriteString("assistant: ")
			b.WriteString(turn.Assistant)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ConversationContext returns the summary when one exists, otherwise
// the full rendered history.
func ConversationContext(session *store.ConversationSession) string {
	if session.Summary != "" {
		return session.Summary
	}
	return RenderHistory(session.ChatHistory)
}
