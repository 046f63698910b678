// Package intent labels each turn with one of the five dialogue intents.
package intent

import (
	"context"
	"log"
	"strings"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/llm"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/store"
)

var knownIntents = []string{
	store.IntentInitialSearch,
	store.IntentNewSearch,
	store.IntentSelectJob,
	store.IntentFollowUpQA,
	store.IntentChitChat,
}

// Classifier resolves the user's intent via one completion call.
type Classifier struct {
	completer prompt.Completer
	logger    *log.Logger
}

func NewClassifier(completer prompt.Completer, logger *log.Logger) *Classifier {
	return &Classifier{completer: completer, logger: logger}
}

// Classify sets session.Intent. A failed or unparseable completion
// degrades to chit_chat; this never returns an error to the traversal.
// When the user rejects an existing list (new_search), every shown id
// moves into the exclusion set so a later retrieval cannot re-offer it.
func (c *Classifier) Classify(ctx context.Context, session *store.ConversationSession) {
	contextText := advisor.ConversationContext(session)

	response, err := c.completer.Complete(ctx, prompt.IntentClassification, map[string]string{
		"chat_history": contextText,
		"question":     session.UserInput.Question,
	}, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[WARN] intent classification failed, defaulting to chit_chat: %v", err)
		session.Intent = store.IntentChitChat
		return
	}

	label, err := parseLabel(response)
	if err != nil {
		c.logger.Printf("[WARN] intent label unparseable (%q), defaulting to chit_chat", strings.TrimSpace(response))
		session.Intent = store.IntentChitChat
		return
	}
	session.Intent = label

	if label == store.IntentNewSearch && len(session.JobList) > 0 {
		session.ExcludeJobs(session.JobIDs())
	}
}

func parseLabel(response string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(response))
	for _, label := range knownIntents {
		if strings.Contains(cleaned, label) {
			return label, nil
		}
	}
	return "", advisor.ErrClassification
}
