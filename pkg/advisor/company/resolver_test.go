package company

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-jobadvisor-be/pkg/llm"
	"ai-jobadvisor-be/pkg/store"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ map[string]string, _ ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func newTestResolver(response string, err error) (*Resolver, *fakeCompleter) {
	fake := &fakeCompleter{response: response, err: err}
	return NewResolver(fake, log.New(io.Discard, "", 0)), fake
}

func sessionWithContexts() *store.ConversationSession {
	s := store.NewConversationSession()
	s.CurrentCompany = "네이버"
	s.CompanyContexts = map[string]store.CompanyContext{
		"네이버": {SelectedJob: "네이버 공고", PreparationAdvice: "네이버 조언"},
		"카카오": {SelectedJob: "카카오 공고", PreparationAdvice: "카카오 조언"},
	}
	return s
}

func TestResolveSwitchesCurrentCompanyFromList(t *testing.T) {
	r, _ := newTestResolver("", nil)
	session := store.NewConversationSession()
	session.CurrentCompany = "네이버"
	session.JobList = []store.JobCandidate{
		{Index: 1, SourceData: map[string]string{store.SourceCompany: "네이버"}},
		{Index: 2, SourceData: map[string]string{store.SourceCompany: "카카오"}},
	}
	session.UserInput.Question = "카카오는 어때요"

	r.Resolve(context.Background(), session)

	if session.CurrentCompany != "카카오" {
		t.Errorf("CurrentCompany = %q, want 카카오", session.CurrentCompany)
	}
}

func TestResolveSkipsPlannerWithOneContext(t *testing.T) {
	r, fake := newTestResolver(`{"inject_company": "카카오"}`, nil)
	session := store.NewConversationSession()
	session.CompanyContexts = map[string]store.CompanyContext{
		"네이버": {SelectedJob: "네이버 공고"},
	}
	session.UserInput.Question = "비교해줘"

	r.Resolve(context.Background(), session)

	if fake.calls != 0 {
		t.Errorf("planner called %d times with one context, want 0", fake.calls)
	}
}

func TestResolveInjectsComparedCompany(t *testing.T) {
	r, _ := newTestResolver(`{"inject_company": "카카오"}`, nil)
	session := sessionWithContexts()
	session.UserInput.Question = "카카오랑 비교하면 어디가 나아요"

	r.Resolve(context.Background(), session)

	injected, ok := session.UserInput.InjectedContexts["카카오"]
	if !ok {
		t.Fatal("compared company context should be injected")
	}
	if injected.PreparationAdvice != "카카오 조언" {
		t.Errorf("injected advice = %q", injected.PreparationAdvice)
	}
}

func TestResolveIgnoresNoneAndCurrent(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"planner answers none", `{"inject_company": "none"}`},
		{"planner answers current company", `{"inject_company": "네이버"}`},
		{"planner answers unknown company", `{"inject_company": "쿠팡"}`},
		{"planner answers garbage", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(tt.response, nil)
			session := sessionWithContexts()
			session.UserInput.Question = "질문"

			r.Resolve(context.Background(), session)

			if len(session.UserInput.InjectedContexts) != 0 {
				t.Errorf("InjectedContexts = %v, want empty", session.UserInput.InjectedContexts)
			}
		})
	}
}

func TestResolvePlannerFailureSkipsInjection(t *testing.T) {
	r, _ := newTestResolver("", errors.New("timeout"))
	session := sessionWithContexts()
	session.UserInput.Question = "비교해줘"

	r.Resolve(context.Background(), session)

	if len(session.UserInput.InjectedContexts) != 0 {
		t.Error("failed planner must not inject context")
	}
}
