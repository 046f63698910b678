package candidate

import (
	"errors"
	"strings"
	"testing"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/retrieval"
	"ai-jobadvisor-be/pkg/store"
)

func rankedResults() []retrieval.RankedJob {
	return []retrieval.RankedJob{
		{
			ID: "job-1",
			SourceData: map[string]string{
				store.SourceCompany:  "네이버",
				store.SourceTitle:    "백엔드 엔지니어",
				store.SourceLocation: "분당",
			},
		},
		{
			ID: "job-2",
			SourceData: map[string]string{
				store.SourceCompany: "카카오",
				store.SourceTitle:   "서버 개발자",
			},
			Document: "카카오 서버 개발자 상세 공고",
		},
		{
			ID: "job-3",
			SourceData: map[string]string{
				store.SourceCompany: "라인",
				store.SourceTitle:   "플랫폼 엔지니어",
			},
		},
	}
}

func sessionWithList() *store.ConversationSession {
	s := store.NewConversationSession()
	s.JobList = BuildJobList(rankedResults())
	s.AwaitingSelection = true
	return s
}

func TestBuildJobListAssignsStableIndices(t *testing.T) {
	jobs := BuildJobList(rankedResults())

	if len(jobs) != 3 {
		t.Fatalf("len = %d, want 3", len(jobs))
	}
	for i, job := range jobs {
		if job.Index != i+1 {
			t.Errorf("jobs[%d].Index = %d, want %d", i, job.Index, i+1)
		}
	}
	if jobs[1].ID != "job-2" {
		t.Errorf("jobs[1].ID = %q, want job-2", jobs[1].ID)
	}
}

func TestPresentArmsSelectionMode(t *testing.T) {
	session := store.NewConversationSession()
	session.JobList = BuildJobList(rankedResults())
	session.AwaitingAnalysisConfirmation = true

	out := Present(session)

	if !session.AwaitingSelection {
		t.Error("AwaitingSelection should be true after Present")
	}
	if session.AwaitingAnalysisConfirmation {
		t.Error("AwaitingAnalysisConfirmation should be cleared by Present")
	}
	for _, want := range []string{"1. **네이버**", "2. **카카오**", "3. **라인**", "위치: 분당"} {
		if !strings.Contains(out, want) {
			t.Errorf("Present output missing %q", want)
		}
	}
}

func TestSelectByNumber(t *testing.T) {
	session := sessionWithList()
	session.UserInput.Question = "2번으로 보여주세요"

	job, err := Select(session)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if job.ID != "job-2" {
		t.Errorf("selected %q, want job-2", job.ID)
	}
	if session.SelectedJob != "카카오 서버 개발자 상세 공고" {
		t.Errorf("SelectedJob = %q, want the document text", session.SelectedJob)
	}
	if session.CurrentCompany != "카카오" {
		t.Errorf("CurrentCompany = %q, want 카카오", session.CurrentCompany)
	}
	if session.AwaitingSelection {
		t.Error("AwaitingSelection should be cleared on success")
	}
	if _, ok := session.CompanyContexts["카카오"]; !ok {
		t.Error("company context should be snapshotted on selection")
	}
}

func TestSelectByCompanyName(t *testing.T) {
	session := sessionWithList()
	session.UserInput.Question = "라인이 궁금해요"

	job, err := Select(session)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if job.ID != "job-3" {
		t.Errorf("selected %q, want job-3", job.ID)
	}
}

func TestSelectOutOfRangeLeavesSessionUntouched(t *testing.T) {
	session := sessionWithList()
	session.UserInput.Question = "7번이요"

	_, err := Select(session)

	if !errors.Is(err, advisor.ErrInvalidSelection) {
		t.Fatalf("err = %v, want ErrInvalidSelection", err)
	}
	if session.HasSelection() {
		t.Error("failed selection must not set SelectedJob")
	}
	if !session.AwaitingSelection {
		t.Error("failed selection must keep AwaitingSelection armed")
	}
}

func TestSelectUnknownCompany(t *testing.T) {
	session := sessionWithList()
	session.UserInput.Question = "쿠팡은 없나요"

	_, err := Select(session)
	if !errors.Is(err, advisor.ErrInvalidSelection) {
		t.Fatalf("err = %v, want ErrInvalidSelection", err)
	}
}

func TestRenderFallsBackToSourceData(t *testing.T) {
	job := store.JobCandidate{
		SourceData: map[string]string{
			store.SourceCompany: "네이버",
			store.SourceTitle:   "백엔드 엔지니어",
		},
	}

	out := Render(job)
	if !strings.Contains(out, "회사: 네이버") || !strings.Contains(out, "직무: 백엔드 엔지니어") {
		t.Errorf("Render output = %q", out)
	}
}

func TestFirstNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"1번", 1, true},
		{"공고 12 보여줘", 12, true},
		{"번호 없음", 0, false},
		{"3", 3, true},
	}

	for _, tt := range tests {
		got, ok := firstNumber(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("firstNumber(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
