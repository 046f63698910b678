package dto

import "time"

type ProfileDTO struct {
	Major     string `json:"candidate_major"`
	Career    string `json:"candidate_career"`
	Interest  string `json:"candidate_interest"`
	Location  string `json:"candidate_location"`
	TechStack string `json:"candidate_tech_stack"`
	Salary    string `json:"candidate_salary"`
}

type ChatRequest struct {
	Question string     `json:"question" validate:"required"`
	Profile  ProfileDTO `json:"profile"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
	Intent    string `json:"intent,omitempty"`
	Route     string `json:"route,omitempty"`
	Turn      int    `json:"turn"`
}

type ResetResponse struct {
	SessionID  string `json:"session_id"`
	ResetCount int    `json:"reset_count"`
}

type SessionInfoResponse struct {
	SessionID      string     `json:"session_id"`
	Exists         bool       `json:"exists"`
	TTLSeconds     int        `json:"ttl_seconds"`
	ShouldRenew    bool       `json:"should_renew"`
	LastActivity   *time.Time `json:"last_activity,omitempty"`
	SessionStarted *time.Time `json:"session_started,omitempty"`
	Turns          int        `json:"conversation_count"`
}

type SessionStatsResponse struct {
	SessionID        string   `json:"session_id"`
	ConversationTurn int      `json:"conversation_turn"`
	Intent           string   `json:"intent"`
	CurrentCompany   string   `json:"current_company"`
	SelectedJob      bool     `json:"job_selected"`
	JobListSize      int      `json:"job_list_size"`
	ExcludedCount    int      `json:"excluded_count"`
	KnownCompanies   []string `json:"known_companies"`
	AwaitingState    string   `json:"awaiting_state"`
	HistoryLength    int      `json:"history_length"`
	HasSummary       bool     `json:"has_summary"`
}

type ClearSessionResponse struct {
	SessionID string `json:"session_id"`
	Forced    bool   `json:"forced"`
}
