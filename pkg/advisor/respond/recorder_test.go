package respond

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

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

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sessionAtTurn(n int) *store.ConversationSession {
	s := store.NewConversationSession()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		s.AppendTurn(fmt.Sprintf("질문 %d", i), now)
		if i < n {
			s.RecordAnswer(fmt.Sprintf("답변 %d", i))
		}
	}
	return s
}

func TestRecordFillsAssistantSlot(t *testing.T) {
	fake := &fakeCompleter{}
	r := NewRecorder(fake, discardLogger())
	session := sessionAtTurn(2)
	session.FinalAnswer = "최종 답변"

	r.Record(context.Background(), session)

	last := session.ChatHistory[len(session.ChatHistory)-1]
	if last.Assistant != "최종 답변" {
		t.Errorf("Assistant = %q, want 최종 답변", last.Assistant)
	}
	if fake.calls != 0 {
		t.Errorf("summarizer called %d times on turn 2, want 0", fake.calls)
	}
}

func TestRecordSummarizesOnFifthTurn(t *testing.T) {
	fake := &fakeCompleter{response: "요약된 대화"}
	r := NewRecorder(fake, discardLogger())
	session := sessionAtTurn(5)
	session.FinalAnswer = "답변 5"

	r.Record(context.Background(), session)

	if fake.calls != 1 {
		t.Fatalf("summarizer called %d times, want 1", fake.calls)
	}
	if session.Summary != "요약된 대화" {
		t.Errorf("Summary = %q, want 요약된 대화", session.Summary)
	}
	if len(session.ChatHistory) != 2 {
		t.Fatalf("history length = %d after truncation, want 2", len(session.ChatHistory))
	}
	if session.ChatHistory[0].User != "질문 4" {
		t.Errorf("kept history starts at %q, want 질문 4", session.ChatHistory[0].User)
	}
	if session.ChatHistory[1].Assistant != "답변 5" {
		t.Errorf("latest answer %q not preserved through truncation", session.ChatHistory[1].Assistant)
	}
}

func TestRecordKeepsHistoryWhenSummaryFails(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("timeout")}
	r := NewRecorder(fake, discardLogger())
	session := sessionAtTurn(5)
	session.Summary = "기존 요약"
	session.FinalAnswer = "답변 5"

	r.Record(context.Background(), session)

	if len(session.ChatHistory) != 5 {
		t.Errorf("history length = %d, want full 5 after failed summary", len(session.ChatHistory))
	}
	if session.Summary != "기존 요약" {
		t.Errorf("Summary = %q, want unchanged", session.Summary)
	}
}

func TestRecordSkipsSummaryOffCadence(t *testing.T) {
	fake := &fakeCompleter{response: "요약"}
	r := NewRecorder(fake, discardLogger())
	session := sessionAtTurn(7)
	session.FinalAnswer = "답변 7"

	r.Record(context.Background(), session)

	if fake.calls != 0 {
		t.Errorf("summarizer called %d times on turn 7, want 0", fake.calls)
	}
	if len(session.ChatHistory) != 7 {
		t.Errorf("history length = %d, want 7", len(session.ChatHistory))
	}
}
