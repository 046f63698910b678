// Package router maps the classified turn onto one of the dialogue
// sub-flows. It is a pure function of session flags, intent, and the
// question text; it performs no I/O.
package router

import (
	"strings"
	"unicode"

	"ai-jobadvisor-be/pkg/store"
)

// Route tags. Each names the sub-flow that handles the rest of the turn.
const (
	RouteConfirmation        = "route_confirmation"
	RouteAnalyzeSelection    = "analyze_selection"
	RouteReformulate         = "reformulate"
	RouteRequestSelection    = "request_selection"
	RouteDismiss             = "dismiss"
	RouteRecommendAndPresent = "recommend_and_present"
	RouteQA                  = "qa"
)

// newSearchKeywords break forced-selection mode: the user is asking for
// a fresh list instead of picking from the shown one.
var newSearchKeywords = []string{"다른", "새로운", "new", "목록"}

// Decide evaluates the routing rules in strict priority order and
// returns the first match. When the forced-selection override fires it
// forces the session intent (the shown list takes precedence over
// whatever the classifier thought), and a forced new_search also
// excludes the rejected list from future retrievals.
//
// Rule order, highest first:
//  1. pending confirmation always wins
//  2-5. forced-selection mode while a list is shown and nothing picked
//  6-11. free intent routing
func Decide(session *store.ConversationSession) string {
	if session.AwaitingAnalysisConfirmation {
		return RouteConfirmation
	}

	question := session.UserInput.Question
	if len(session.JobList) > 0 && session.AwaitingSelection && !session.HasSelection() {
		switch {
		case containsDigit(question):
			session.Intent = store.IntentSelectJob
			return RouteAnalyzeSelection
		case containsCompany(question, session.JobList):
			session.Intent = store.IntentSelectJob
			return RouteAnalyzeSelection
		case containsNewSearchKeyword(question):
			// Asking for a fresh list rejects every shown posting, so
			// exclude them the same way the classifier does on new_search.
			session.Intent = store.IntentNewSearch
			session.ExcludeJobs(session.JobIDs())
			return RouteReformulate
		default:
			return RouteRequestSelection
		}
	}

	switch session.Intent {
	case store.IntentChitChat:
		return RouteDismiss
	case store.IntentSelectJob:
		return RouteAnalyzeSelection
	case store.IntentInitialSearch:
		return RouteRecommendAndPresent
	case store.IntentNewSearch:
		return RouteReformulate
	case store.IntentFollowUpQA:
		if session.HasSelection() {
			return RouteQA
		}
	}
	return RouteDismiss
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsCompany(question string, jobs []store.JobCandidate) bool {
	for _, job := range jobs {
		name := job.SourceData[store.SourceCompany]
		if name != "" && strings.Contains(question, name) {
			return true
		}
	}
	return false
}

func containsNewSearchKeyword(question string) bool {
	lowered := strings.ToLower(question)
	for _, kw := range newSearchKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
