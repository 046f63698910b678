// Package company tracks which company the conversation is about and
// pulls cached context for cross-company questions.
package company

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"ai-jobadvisor-be/pkg/llm"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/store"
)

// Resolver decides the current company for the turn and, when the user
// compares companies, injects the other company's cached context into
// the turn input.
type Resolver struct {
	completer prompt.Completer
	logger    *log.Logger
}

func NewResolver(completer prompt.Completer, logger *log.Logger) *Resolver {
	return &Resolver{completer: completer, logger: logger}
}

// Resolve updates session.CurrentCompany and UserInput.InjectedContexts.
// Planner failures are logged and skipped; the turn proceeds without
// injected context.
func (r *Resolver) Resolve(ctx context.Context, session *store.ConversationSession) {
	question := session.UserInput.Question

	// A company named in the question and present in the candidate list
	// becomes current. Otherwise the previous value stays.
	for _, job := range session.JobList {
		name := job.SourceData[store.SourceCompany]
		if name != "" && strings.Contains(question, name) {
			session.CurrentCompany = name
			break
		}
	}

	// Cross-company planning only matters once two or more companies
	// have accumulated context.
	if len(session.CompanyContexts) < 2 {
		return
	}

	known := make([]string, 0, len(session.CompanyContexts))
	for name := range session.CompanyContexts {
		known = append(known, name)
	}

	response, err := r.completer.Complete(ctx, prompt.CompanyContextPlanning, map[string]string{
		"current_company": session.CurrentCompany,
		"known_companies": strings.Join(known, ", "),
		"question":        question,
	}, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[WARN] company context planning failed: %v", err)
		return
	}

	target := parsePlan(response)
	if target == "" || target == "none" || target == session.CurrentCompany {
		return
	}
	cached, ok := session.CompanyContexts[target]
	if !ok {
		return
	}

	if session.UserInput.InjectedContexts == nil {
		session.UserInput.InjectedContexts = map[string]store.CompanyContext{}
	}
	session.UserInput.InjectedContexts[target] = cached
	r.logger.Printf("[COMPANY] injected cached context for %s", target)
}

type contextPlan struct {
	InjectCompany string `json:"inject_company"`
}

func parsePlan(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return ""
	}
	var plan contextPlan
	if err := json.Unmarshal([]byte(response[start:end+1]), &plan); err != nil {
		return ""
	}
	return strings.TrimSpace(plan.InjectCompany)
}
