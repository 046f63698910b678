package store

import "time"

// SchemaVersion tags serialized sessions so older records can be migrated
// when the shape of ConversationSession changes.
const SchemaVersion = 1

// Intent labels produced by the classifier.
const (
	IntentChitChat      = "chit_chat"
	IntentInitialSearch = "initial_search"
	IntentNewSearch     = "new_search"
	IntentSelectJob     = "select_job"
	IntentFollowUpQA    = "follow_up_qa"
)

// Keys of JobCandidate.SourceData guaranteed by the retrieval contract.
const (
	SourceCompany        = "company"
	SourceTitle          = "title"
	SourceLocation       = "location"
	SourceMainTasks      = "main_tasks"
	SourceQualifications = "qualifications"
)

// Profile is the structured candidate profile sent with each chat request.
type Profile struct {
	Major     string `json:"candidate_major"`
	Career    string `json:"candidate_career"`
	Interest  string `json:"candidate_interest"`
	Location  string `json:"candidate_location"`
	TechStack string `json:"candidate_tech_stack"`
	Salary    string `json:"candidate_salary"`
}

// Map flattens the profile into the key set the retrieval service and
// the original request format use.
func (p Profile) Map() map[string]string {
	return map[string]string{
		"candidate_major":      p.Major,
		"candidate_career":     p.Career,
		"candidate_interest":   p.Interest,
		"candidate_location":   p.Location,
		"candidate_tech_stack": p.TechStack,
		"candidate_salary":     p.Salary,
	}
}

// UserInput is the per-turn input: the raw question plus the profile.
// InjectedContexts carries cached company context copied in by the
// company resolver for cross-company comparison questions.
type UserInput struct {
	Question         string                    `json:"question"`
	Profile          Profile                   `json:"profile"`
	InjectedContexts map[string]CompanyContext `json:"injected_contexts,omitempty"`
}

// ChatTurn is one user/assistant exchange in the running history.
type ChatTurn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Timestamp time.Time `json:"timestamp"`
}

// JobCandidate is one retrieved posting. Index is the stable 1-based
// position shown to the user; it never changes while the posting stays
// in the list.
type JobCandidate struct {
	Index      int               `json:"index"`
	ID         string            `json:"id"`
	SourceData map[string]string `json:"source_data"`
	Document   string            `json:"document"`
}

// CompanyContext is the accumulated deep-dive material for one company,
// kept so the user can come back to it after switching targets.
type CompanyContext struct {
	SelectedJob               string            `json:"selected_job"`
	SelectedJobData           map[string]string `json:"selected_job_data"`
	SearchResult              string            `json:"search_result"`
	InterviewQuestionsContext string            `json:"interview_questions_context"`
	CompanyCultureContext     string            `json:"company_culture_context"`
	PreparationAdvice         string            `json:"preparation_advice"`
}

// ConversationSession is the full dialogue state persisted between turns.
// The two Awaiting flags are mutually exclusive; SelectedJob and
// SelectedJobData are set or cleared together.
type ConversationSession struct {
	SchemaVersion int `json:"schema_version"`

	UserInput UserInput `json:"user_input"`
	Intent    string    `json:"intent"`

	ChatHistory      []ChatTurn `json:"chat_history"`
	ConversationTurn int        `json:"conversation_turn"`
	Summary          string     `json:"summary"`
	ResetCount       int        `json:"reset_count"`

	JobList     []JobCandidate `json:"job_list"`
	ExcludedIDs []string       `json:"excluded_ids"`

	SelectedJob     string            `json:"selected_job"`
	SelectedJobData map[string]string `json:"selected_job_data"`

	CurrentCompany  string                    `json:"current_company"`
	CompanyContexts map[string]CompanyContext `json:"company_contexts"`

	AwaitingSelection            bool `json:"awaiting_selection"`
	AwaitingAnalysisConfirmation bool `json:"awaiting_analysis_confirmation"`

	// Scratch fields for the current deep-dive; cleared by ResetSelection.
	SearchResult              string `json:"search_result"`
	InterviewQuestionsContext string `json:"interview_questions_context"`
	CompanyCultureContext     string `json:"company_culture_context"`
	PreparationAdvice         string `json:"preparation_advice"`

	FinalAnswer string `json:"final_answer"`
	NextAction  string `json:"next_action"`
}

// NewConversationSession returns an empty session at the current schema.
func NewConversationSession() *ConversationSession {
	return &ConversationSession{
		SchemaVersion:   SchemaVersion,
		CompanyContexts: map[string]CompanyContext{},
	}
}

// HasSelection reports whether a posting is currently selected.
func (s *ConversationSession) HasSelection() bool {
	return s.SelectedJob != ""
}

// AppendTurn records the user message with an empty assistant slot and
// advances the turn counter. The recorder fills the slot at the end of
// the turn.
func (s *ConversationSession) AppendTurn(user string, now time.Time) {
	s.ChatHistory = append(s.ChatHistory, ChatTurn{User: user, Timestamp: now})
	s.ConversationTurn++
}

// RecordAnswer writes the final answer into the latest history entry.
func (s *ConversationSession) RecordAnswer(answer string) {
	if len(s.ChatHistory) == 0 {
		return
	}
	s.ChatHistory[len(s.ChatHistory)-1].Assistant = answer
}

// ExcludeJobs merges the given posting ids into ExcludedIDs. The set only
// grows; duplicates are dropped.
func (s *ConversationSession) ExcludeJobs(ids []string) {
	seen := make(map[string]struct{}, len(s.ExcludedIDs))
	for _, id := range s.ExcludedIDs {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		s.ExcludedIDs = append(s.ExcludedIDs, id)
	}
}

// JobIDs returns the ids of the current candidate list.
func (s *ConversationSession) JobIDs() []string {
	ids := make([]string, 0, len(s.JobList))
	for _, j := range s.JobList {
		ids = append(ids, j.ID)
	}
	return ids
}

// ResetSelection clears the active selection and all per-company scratch
// state. Safe to call on an already-clean session.
func (s *ConversationSession) ResetSelection() {
	s.SelectedJob = ""
	s.SelectedJobData = nil
	s.SearchResult = ""
	s.InterviewQuestionsContext = ""
	s.CompanyCultureContext = ""
	s.PreparationAdvice = ""
	s.AwaitingAnalysisConfirmation = false
}

// SaveCompanyContext snapshots the current scratch fields under the given
// company name so they survive a later ResetSelection.
func (s *ConversationSession) SaveCompanyContext(company string) {
	if company == "" {
		return
	}
	if s.CompanyContexts == nil {
		s.CompanyContexts = map[string]CompanyContext{}
	}
	s.CompanyContexts[company] = CompanyContext{
		SelectedJob:               s.SelectedJob,
		SelectedJobData:           s.SelectedJobData,
		SearchResult:              s.SearchResult,
		InterviewQuestionsContext: s.InterviewQuestionsContext,
		CompanyCultureContext:     s.CompanyCultureContext,
		PreparationAdvice:         s.PreparationAdvice,
	}
}
