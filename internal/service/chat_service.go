package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"

	"ai-jobadvisor-be/internal/dto"
	"ai-jobadvisor-be/internal/pkg/logger"
	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/advisor/executor"
	"ai-jobadvisor-be/pkg/events"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/retrieval"
	"ai-jobadvisor-be/pkg/store"
	"ai-jobadvisor-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IChatService is the application-facing surface of the advisor.
type IChatService interface {
	SendChat(ctx context.Context, sessionID string, request *dto.ChatRequest) (*dto.ChatResponse, error)
	ResetConversation(ctx context.Context, sessionID string) (*dto.ResetResponse, error)
	SessionInfo(ctx context.Context, sessionID string) (*dto.SessionInfoResponse, error)
	SessionStats(ctx context.Context, sessionID string) (*dto.SessionStatsResponse, error)
	ClearSession(ctx context.Context, sessionID string, force bool) (*dto.ClearSessionResponse, error)
}

type chatService struct {
	sessions  store.SessionStore
	traversal *executor.Traversal
	pubSub    *gochannel.GoChannel
	appLogger logger.ILogger
}

// NewChatService wires the advisor pipeline behind the session store.
// The pipeline gets its own file logger so verbose LLM traffic stays
// out of the main log.
func NewChatService(
	sessions store.SessionStore,
	completer prompt.Completer,
	retriever retrieval.Retriever,
	searcher websearch.Searcher,
	pubSub *gochannel.GoChannel,
	appLogger logger.ILogger,
) IChatService {
	pipelineLogger := initPipelineLogger()
	return &chatService{
		sessions:  sessions,
		traversal: executor.NewTraversal(completer, retriever, searcher, pipelineLogger),
		pubSub:    pubSub,
		appLogger: appLogger,
	}
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "advisor_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[ADVISOR] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// SendChat runs one turn. The session lock serializes concurrent
// requests for the same id; the previous persisted record is only
// replaced after the traversal finishes cleanly, so a crashed turn
// never leaves partial state behind.
func (cs *chatService) SendChat(ctx context.Context, sessionID string, request *dto.ChatRequest) (resp *dto.ChatResponse, err error) {
	if sessionID == "" {
		return nil, advisor.ErrMissingUserID
	}

	unlock, err := cs.sessions.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := cs.sessions.Load(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		session = store.NewConversationSession()
	} else if err != nil {
		cs.appLogger.Error("chat", "session load failed", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
		return &dto.ChatResponse{SessionID: sessionID, Answer: advisor.MsgGenericFallback}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			cs.appLogger.Error("chat", "traversal panicked", map[string]interface{}{
				"session_id": sessionID, "panic": r,
			})
			resp = &dto.ChatResponse{SessionID: sessionID, Answer: advisor.MsgGenericFallback}
			err = nil
		}
	}()

	input := store.UserInput{
		Question: request.Question,
		Profile: store.Profile{
			Major:     request.Profile.Major,
			Career:    request.Profile.Career,
			Interest:  request.Profile.Interest,
			Location:  request.Profile.Location,
			TechStack: request.Profile.TechStack,
			Salary:    request.Profile.Salary,
		},
	}

	if err := cs.traversal.Run(ctx, sessionID, session, input); err != nil {
		return nil, err
	}

	if err := cs.sessions.Save(ctx, sessionID, session); err != nil {
		// The user still gets the answer; only continuity suffers.
		cs.appLogger.Error("chat", "session save failed", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}

	cs.publishTurn(sessionID, session)

	return &dto.ChatResponse{
		SessionID: sessionID,
		Answer:    session.FinalAnswer,
		Intent:    session.Intent,
		Route:     session.NextAction,
		Turn:      session.ConversationTurn,
	}, nil
}

func (cs *chatService) publishTurn(sessionID string, session *store.ConversationSession) {
	event := events.NewTurnCompleted(
		sessionID,
		session.UserInput.Question,
		session.FinalAnswer,
		session.Intent,
		session.NextAction,
		session.ConversationTurn,
		session.UserInput.Profile.Map(),
	)
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		cs.appLogger.Warn("chat", "turn event marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := cs.pubSub.Publish(events.TypeTurnCompleted, msg); err != nil {
		cs.appLogger.Warn("chat", "turn event publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// ResetConversation clears the dialogue but keeps the profile, so the
// user can start over without re-entering their details.
func (cs *chatService) ResetConversation(ctx context.Context, sessionID string) (*dto.ResetResponse, error) {
	if sessionID == "" {
		return nil, advisor.ErrMissingUserID
	}

	unlock, err := cs.sessions.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	previous, err := cs.sessions.Load(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		previous = store.NewConversationSession()
	} else if err != nil {
		return nil, err
	}

	fresh := store.NewConversationSession()
	fresh.UserInput.Profile = previous.UserInput.Profile
	fresh.ResetCount = previous.ResetCount + 1

	if err := cs.sessions.Save(ctx, sessionID, fresh); err != nil {
		return nil, err
	}
	return &dto.ResetResponse{SessionID: sessionID, ResetCount: fresh.ResetCount}, nil
}

func (cs *chatService) SessionInfo(ctx context.Context, sessionID string) (*dto.SessionInfoResponse, error) {
	if sessionID == "" {
		return nil, advisor.ErrMissingUserID
	}

	info, err := cs.sessions.Info(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionInfoResponse{
		SessionID:   info.SessionID,
		Exists:      info.Exists,
		TTLSeconds:  int(info.TTL.Seconds()),
		ShouldRenew: info.ShouldRenew,
		Turns:       info.Turns,
	}
	if !info.LastActivity.IsZero() {
		la := info.LastActivity
		resp.LastActivity = &la
	}
	if !info.Started.IsZero() {
		st := info.Started
		resp.SessionStarted = &st
	}
	return resp, nil
}

func (cs *chatService) SessionStats(ctx context.Context, sessionID string) (*dto.SessionStatsResponse, error) {
	if sessionID == "" {
		return nil, advisor.ErrMissingUserID
	}

	session, err := cs.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	companies := make([]string, 0, len(session.CompanyContexts))
	for name := range session.CompanyContexts {
		companies = append(companies, name)
	}

	awaiting := "free"
	switch {
	case session.AwaitingSelection:
		awaiting = "selection"
	case session.AwaitingAnalysisConfirmation:
		awaiting = "confirmation"
	}

	return &dto.SessionStatsResponse{
		SessionID:        sessionID,
		ConversationTurn: session.ConversationTurn,
		Intent:           session.Intent,
		CurrentCompany:   session.CurrentCompany,
		SelectedJob:      session.HasSelection(),
		JobListSize:      len(session.JobList),
		ExcludedCount:    len(session.ExcludedIDs),
		KnownCompanies:   companies,
		AwaitingState:    awaiting,
		HistoryLength:    len(session.ChatHistory),
		HasSummary:       session.Summary != "",
	}, nil
}

func (cs *chatService) ClearSession(ctx context.Context, sessionID string, force bool) (*dto.ClearSessionResponse, error) {
	if sessionID == "" {
		return nil, advisor.ErrMissingUserID
	}
	if err := cs.sessions.Delete(ctx, sessionID, force); err != nil {
		return nil, err
	}
	return &dto.ClearSessionResponse{SessionID: sessionID, Forced: force}, nil
}
