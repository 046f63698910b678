// Package candidate turns retrieval results into the numbered list shown
// to the user and resolves which entry a reply refers to.
package candidate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/retrieval"
	"ai-jobadvisor-be/pkg/store"
)

// BuildJobList assigns stable 1-based indices to the ranked results.
// Indices never change for the lifetime of the presented list.
func BuildJobList(results []retrieval.RankedJob) []store.JobCandidate {
	jobs := make([]store.JobCandidate, 0, len(results))
	for i, r := range results {
		jobs = append(jobs, store.JobCandidate{
			Index:      i + 1,
			ID:         r.ID,
			SourceData: r.SourceData,
			Document:   r.Document,
		})
	}
	return jobs
}

// Present renders the candidate list and arms selection mode.
func Present(session *store.ConversationSession) string {
	var b strings.Builder
	b.WriteString("조건에 맞는 공고를 찾았습니다. 번호나 회사 이름으로 선택해주세요.\n")
	for _, job := range session.JobList {
		b.WriteString(fmt.Sprintf("\n%d. **%s** — %s\n", job.Index, job.SourceData[store.SourceCompany], job.SourceData[store.SourceTitle]))
		if loc := job.SourceData[store.SourceLocation]; loc != "" {
			b.WriteString(fmt.Sprintf("   - 위치: %s\n", loc))
		}
		if tasks := job.SourceData[store.SourceMainTasks]; tasks != "" {
			b.WriteString(fmt.Sprintf("   - 주요 업무: %s\n", tasks))
		}
		if quals := job.SourceData[store.SourceQualifications]; quals != "" {
			b.WriteString(fmt.Sprintf("   - 자격 요건: %s\n", quals))
		}
	}

	session.AwaitingSelection = true
	session.AwaitingAnalysisConfirmation = false
	return b.String()
}

// Select resolves the user's reply against the shown list: first by
// index, then by company substring. On success the selection fields and
// the company context entry are populated and selection mode ends. On
// failure the session is untouched and the caller re-prompts with
// AwaitingSelection still armed.
func Select(session *store.ConversationSession) (store.JobCandidate, error) {
	question := session.UserInput.Question

	if n, ok := firstNumber(question); ok {
		for _, job := range session.JobList {
			if job.Index == n {
				apply(session, job)
				return job, nil
			}
		}
		return store.JobCandidate{}, fmt.Errorf("index %d out of range: %w", n, advisor.ErrInvalidSelection)
	}

	for _, job := range session.JobList {
		name := job.SourceData[store.SourceCompany]
		if name != "" && strings.Contains(question, name) {
			apply(session, job)
			return job, nil
		}
	}
	return store.JobCandidate{}, advisor.ErrInvalidSelection
}

func apply(session *store.ConversationSession, job store.JobCandidate) {
	session.SelectedJob = Render(job)
	session.SelectedJobData = job.SourceData
	session.CurrentCompany = job.SourceData[store.SourceCompany]
	session.SaveCompanyContext(session.CurrentCompany)
	session.AwaitingSelection = false
}

// Render produces the full posting text for prompts and the
// confirmation screen.
func Render(job store.JobCandidate) string {
	if job.Document != "" {
		return job.Document
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("회사: %s\n", job.SourceData[store.SourceCompany]))
	b.WriteString(fmt.Sprintf("직무: %s\n", job.SourceData[store.SourceTitle]))
	if loc := job.SourceData[store.SourceLocation]; loc != "" {
		b.WriteString(fmt.Sprintf("위치: %s\n", loc))
	}
	if tasks := job.SourceData[store.SourceMainTasks]; tasks != "" {
		b.WriteString(fmt.Sprintf("주요 업무: %s\n", tasks))
	}
	if quals := job.SourceData[store.SourceQualifications]; quals != "" {
		b.WriteString(fmt.Sprintf("자격 요건: %s\n", quals))
	}
	return b.String()
}

// firstNumber extracts the first run of digits from the message.
func firstNumber(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start != -1 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil
	}
	return 0, false
}
