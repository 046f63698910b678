// Package respond produces the final answer text and persists the turn
// into history.
package respond

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/store"
)

// Synthesizer assembles the turn's outgoing answer.
type Synthesizer struct {
	completer prompt.Completer
	logger    *log.Logger
}

func NewSynthesizer(completer prompt.Completer, logger *log.Logger) *Synthesizer {
	return &Synthesizer{completer: completer, logger: logger}
}

// Synthesize fills session.FinalAnswer. Precedence: a completed
// deep-dive becomes the full coaching report; otherwise a sub-flow's
// prepared answer passes through; otherwise chit_chat gets the fixed
// refusal. The last branch means no sub-flow produced anything, which
// is a routing defect, so it logs before falling back.
func (s *Synthesizer) Synthesize(ctx context.Context, session *store.ConversationSession) {
	switch {
	case session.PreparationAdvice != "":
		session.FinalAnswer = s.deepDiveReport(ctx, session)
	case session.FinalAnswer != "":
		// Sub-flow already answered.
	case session.Intent == store.IntentChitChat:
		session.FinalAnswer = advisor.MsgChitChatRefusal
	default:
		s.logger.Printf("[ERROR] no answer produced for route %s intent %s", session.NextAction, session.Intent)
		session.FinalAnswer = advisor.MsgGenericFallback
	}
}

func (s *Synthesizer) deepDiveReport(ctx context.Context, session *store.ConversationSession) string {
	selectedJob := session.SelectedJob
	if len(session.UserInput.InjectedContexts) > 0 {
		var b strings.Builder
		b.WriteString(selectedJob)
		for name, cc := range session.UserInput.InjectedContexts {
			b.WriteString(fmt.Sprintf("\n\n[이전에 분석한 회사: %s]\n%s\n%s", name, cc.SelectedJob, cc.PreparationAdvice))
		}
		selectedJob = b.String()
	}

	answer, err := s.completer.Complete(ctx, prompt.FinalAnswer, map[string]string{
		"user_profile":       RenderProfile(session.UserInput.Profile),
		"question":           session.UserInput.Question,
		"selected_job":       selectedJob,
		"search_result":      session.SearchResult,
		"preparation_advice": session.PreparationAdvice,
	})
	if err != nil {
		s.logger.Printf("[WARN] final answer synthesis failed: %v", err)
		// The raw advice is still useful on its own.
		return session.PreparationAdvice
	}
	return answer
}

// RenderProfile flattens the candidate profile for prompt injection.
func RenderProfile(p store.Profile) string {
	var b strings.Builder
	write := func(label, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("- %s: %s\n", label, value))
		}
	}
	write("전공", p.Major)
	write("경력", p.Career)
	write("희망 직무", p.Interest)
	write("희망 근무지", p.Location)
	write("기술 스택", p.TechStack)
	write("희망 연봉", p.Salary)
	return b.String()
}
