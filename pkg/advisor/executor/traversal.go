// Package executor drives one full traversal of the dialogue pipeline:
// bootstrap → classify → resolve company → route → sub-flow →
// synthesize → record. Every external call degrades locally so the
// traversal always reaches the synthesizer.
package executor

import (
	"context"
	"log"
	"strings"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/advisor/candidate"
	"ai-jobadvisor-be/pkg/advisor/company"
	"ai-jobadvisor-be/pkg/advisor/confirm"
	"ai-jobadvisor-be/pkg/advisor/intent"
	"ai-jobadvisor-be/pkg/advisor/respond"
	"ai-jobadvisor-be/pkg/advisor/router"
	"ai-jobadvisor-be/pkg/advisor/turn"
	"ai-jobadvisor-be/pkg/llm"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/retrieval"
	"ai-jobadvisor-be/pkg/store"
	"ai-jobadvisor-be/pkg/websearch"
)

// Traversal wires the pipeline stages together. One Run per inbound
// message; the session is owned exclusively by the running traversal.
type Traversal struct {
	bootstrapper *turn.Bootstrapper
	classifier   *intent.Classifier
	companies    *company.Resolver
	confirmFlow  *confirm.Flow
	synthesizer  *respond.Synthesizer
	recorder     *respond.Recorder

	completer prompt.Completer
	retriever retrieval.Retriever
	searcher  websearch.Searcher
	logger    *log.Logger
}

func NewTraversal(
	completer prompt.Completer,
	retriever retrieval.Retriever,
	searcher websearch.Searcher,
	logger *log.Logger,
) *Traversal {
	return &Traversal{
		bootstrapper: turn.NewBootstrapper(),
		classifier:   intent.NewClassifier(completer, logger),
		companies:    company.NewResolver(completer, logger),
		confirmFlow:  confirm.NewFlow(completer, logger),
		synthesizer:  respond.NewSynthesizer(completer, logger),
		recorder:     respond.NewRecorder(completer, logger),
		completer:    completer,
		retriever:    retriever,
		searcher:     searcher,
		logger:       logger,
	}
}

// Run executes one turn against the loaded session. The only error it
// returns is ErrMissingUserID; every other failure degrades into the
// answer text. On return session.FinalAnswer holds the reply and the
// session is ready to persist.
func (t *Traversal) Run(ctx context.Context, userID string, session *store.ConversationSession, input store.UserInput) error {
	if err := t.bootstrapper.Begin(session, userID, input); err != nil {
		return err
	}

	t.classifier.Classify(ctx, session)
	t.companies.Resolve(ctx, session)

	route := router.Decide(session)
	session.NextAction = route
	t.logger.Printf("[ROUTE] turn=%d intent=%s route=%s", session.ConversationTurn, session.Intent, route)

	switch route {
	case router.RouteConfirmation:
		t.runConfirmation(ctx, session)
	case router.RouteAnalyzeSelection:
		t.runSelection(ctx, session)
	case router.RouteRecommendAndPresent:
		t.runRecommend(ctx, session, t.initialQuery(session))
	case router.RouteReformulate:
		t.runRecommend(ctx, session, t.reformulateQuery(ctx, session))
	case router.RouteQA:
		// A completed deep dive answers follow-ups through the coaching
		// report; running QA here would only be overwritten.
		if session.PreparationAdvice == "" {
			t.runQA(ctx, session)
		}
	case router.RouteRequestSelection:
		session.FinalAnswer = advisor.MsgRequestSelection
	case router.RouteDismiss:
		// Synthesizer turns chit_chat into the fixed refusal.
	}

	t.synthesizer.Synthesize(ctx, session)
	t.recorder.Record(ctx, session)
	return nil
}

// runSelection resolves the user's pick and enters confirmation mode.
// A failed parse re-prompts and leaves selection mode armed.
func (t *Traversal) runSelection(ctx context.Context, session *store.ConversationSession) {
	if _, err := candidate.Select(session); err != nil {
		t.logger.Printf("[SELECT] %v", err)
		session.FinalAnswer = advisor.MsgRequestSelection
		return
	}
	session.FinalAnswer = t.confirmFlow.ShowAndConfirm(session)
}

func (t *Traversal) runConfirmation(ctx context.Context, session *store.ConversationSession) {
	action := t.confirmFlow.Route(ctx, session)
	session.NextAction = action

	switch action {
	case confirm.ActionStartDeepAnalysis:
		session.AwaitingAnalysisConfirmation = false
		t.runDeepAnalysis(ctx, session)
	case confirm.ActionResetAndReformulate:
		session.ResetSelection()
		t.runRecommend(ctx, session, t.reformulateQuery(ctx, session))
	case confirm.ActionExpertResearch:
		session.AwaitingAnalysisConfirmation = false
		t.runExpertResearch(ctx, session)
	case confirm.ActionRequestFurtherAction:
		session.FinalAnswer = advisor.MsgFurtherAction
	}
}

// runDeepAnalysis gathers company info, interview questions, and culture
// material, then synthesizes preparation advice. Individual search
// failures leave their slot empty; the advice call still runs with
// whatever was collected.
func (t *Traversal) runDeepAnalysis(ctx context.Context, session *store.ConversationSession) {
	companyName := session.CurrentCompany

	session.SearchResult = t.search(ctx, companyName+" "+session.UserInput.Question)
	session.InterviewQuestionsContext = t.search(ctx, companyName+" 면접 예상 질문")
	session.CompanyCultureContext = t.search(ctx, companyName+" 기업 문화")

	advice, err := t.completer.Complete(ctx, prompt.PreparationAdvice, map[string]string{
		"user_profile":                respond.RenderProfile(session.UserInput.Profile),
		"job_data":                    session.SelectedJob,
		"interview_questions_context": session.InterviewQuestionsContext,
		"company_culture_context":     session.CompanyCultureContext,
	})
	if err != nil {
		t.logger.Printf("[WARN] preparation advice failed: %v", err)
		session.FinalAnswer = advisor.MsgGenericFallback
		return
	}
	session.PreparationAdvice = advice
	session.SaveCompanyContext(companyName)
}

// runExpertResearch answers the confirmation reply with one consolidated
// web search instead of the full deep-dive.
func (t *Traversal) runExpertResearch(ctx context.Context, session *store.ConversationSession) {
	query := strings.TrimSpace(session.CurrentCompany + " " + session.UserInput.Question)
	result := t.search(ctx, query)
	if result == "" {
		session.FinalAnswer = advisor.MsgSearchUnavailable
		return
	}
	session.SearchResult = result
	session.FinalAnswer = result
	session.SaveCompanyContext(session.CurrentCompany)
}

// runRecommend clears stale deep-dive state, retrieves a fresh list,
// and presents it. An empty or failed retrieval answers with the
// no-results message and leaves selection mode off.
func (t *Traversal) runRecommend(ctx context.Context, session *store.ConversationSession, query string) {
	session.ResetSelection()

	results, err := t.retriever.Recommend(ctx, query, session.UserInput.Profile.Map(), session.ExcludedIDs)
	if err != nil {
		t.logger.Printf("[WARN] retrieval failed: %v", advisor.NewToolError("retrieval", err))
		results = nil
	}
	if len(results) == 0 {
		session.JobList = nil
		session.AwaitingSelection = false
		session.FinalAnswer = advisor.MsgNoResults
		return
	}

	session.JobList = candidate.BuildJobList(results)
	session.FinalAnswer = candidate.Present(session)
}

// runQA answers a follow-up about the selected company from cached
// posting context plus a web search.
func (t *Traversal) runQA(ctx context.Context, session *store.ConversationSession) {
	webContext := t.search(ctx, strings.TrimSpace(session.CurrentCompany+" "+session.UserInput.Question))

	companyContext := session.SelectedJob
	for name, cc := range session.UserInput.InjectedContexts {
		companyContext += "\n\n[" + name + "]\n" + cc.SelectedJob + "\n" + cc.PreparationAdvice
	}

	answer, err := t.completer.Complete(ctx, prompt.ContextualQA, map[string]string{
		"company_context":    companyContext,
		"web_search_context": webContext,
		"question":           session.UserInput.Question,
	})
	if err != nil {
		t.logger.Printf("[WARN] contextual QA failed: %v", err)
		session.FinalAnswer = advisor.MsgGenericFallback
		return
	}
	session.FinalAnswer = answer
}

// initialQuery builds the first retrieval query from the profile, with
// the raw question as fallback.
func (t *Traversal) initialQuery(session *store.ConversationSession) string {
	p := session.UserInput.Profile
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Location, p.Interest, p.TechStack} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return session.UserInput.Question
	}
	return strings.Join(parts, " ")
}

// reformulateQuery asks the model to fold conversation context and the
// latest request into one search query. Failure degrades to the raw
// question.
func (t *Traversal) reformulateQuery(ctx context.Context, session *store.ConversationSession) string {
	query, err := t.completer.Complete(ctx, prompt.ReformulateQuery, map[string]string{
		"context":  advisor.ConversationContext(session),
		"question": session.UserInput.Question,
	}, llm.WithTemperature(0.0))
	if err != nil {
		t.logger.Printf("[WARN] query reformulation failed: %v", err)
		return session.UserInput.Question
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return session.UserInput.Question
	}
	return query
}

func (t *Traversal) search(ctx context.Context, query string) string {
	results, err := t.searcher.Search(ctx, query)
	if err != nil {
		t.logger.Printf("[WARN] web search failed: %v", advisor.NewToolError("websearch", err))
		return ""
	}
	return websearch.Digest(results)
}
