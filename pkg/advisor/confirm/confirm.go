// Package confirm handles the "deep-dive or not" exchange after a
// posting is selected.
package confirm

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/llm"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/store"
)

// Next actions returned by Route.
const (
	ActionStartDeepAnalysis    = "start_deep_analysis"
	ActionResetAndReformulate  = "reset_and_reformulate"
	ActionExpertResearch       = "expert_research"
	ActionRequestFurtherAction = "request_further_action"
)

var validActions = map[string]bool{
	ActionStartDeepAnalysis:    true,
	ActionResetAndReformulate:  true,
	ActionExpertResearch:       true,
	ActionRequestFurtherAction: true,
}

// Flow shows the selected posting and interprets the user's reply.
type Flow struct {
	completer prompt.Completer
	logger    *log.Logger
}

func NewFlow(completer prompt.Completer, logger *log.Logger) *Flow {
	return &Flow{completer: completer, logger: logger}
}

// ShowAndConfirm renders the full posting with the fixed confirmation
// prompt and arms confirmation mode.
func (f *Flow) ShowAndConfirm(session *store.ConversationSession) string {
	var b strings.Builder
	b.WriteString(session.SelectedJob)
	b.WriteString("\n\n")
	b.WriteString(advisor.MsgConfirmAnalysis)

	session.AwaitingAnalysisConfirmation = true
	session.AwaitingSelection = false
	return b.String()
}

// Route classifies the user's reply into one of the four next actions.
// Anything outside the set, and any completion failure, degrades to
// request_further_action.
func (f *Flow) Route(ctx context.Context, session *store.ConversationSession) string {
	response, err := f.completer.Complete(ctx, prompt.ConfirmationRouting, map[string]string{
		"question": session.UserInput.Question,
	}, llm.WithTemperature(0.0))
	if err != nil {
		f.logger.Printf("[WARN] confirmation routing failed: %v", err)
		return ActionRequestFurtherAction
	}

	action := parseAction(response)
	if !validActions[action] {
		f.logger.Printf("[WARN] confirmation routing returned %q, re-asking", action)
		return ActionRequestFurtherAction
	}
	return action
}

type actionPayload struct {
	NextAction string `json:"next_action"`
}

func parseAction(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end > start {
		var payload actionPayload
		if err := json.Unmarshal([]byte(response[start:end+1]), &payload); err == nil {
			return strings.TrimSpace(payload.NextAction)
		}
	}
	// Some models answer with the bare label.
	return strings.ToLower(strings.TrimSpace(response))
}
