package service

import (
	"context"
	"errors"
	"testing"

	"ai-jobadvisor-be/internal/dto"
	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/llm"
	"ai-jobadvisor-be/pkg/retrieval"
	"ai-jobadvisor-be/pkg/store"
	"ai-jobadvisor-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type stubCompleter struct {
	responses map[string]string
}

func (s *stubCompleter) Complete(_ context.Context, templateName string, _ map[string]string, _ ...llm.Option) (string, error) {
	if resp, ok := s.responses[templateName]; ok {
		return resp, nil
	}
	return "", errors.New("no canned response for " + templateName)
}

type stubRetriever struct {
	results []retrieval.RankedJob
}

func (s *stubRetriever) Recommend(context.Context, string, map[string]string, []string) ([]retrieval.RankedJob, error) {
	return s.results, nil
}

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, string) ([]websearch.Result, error) {
	return nil, errors.New("search disabled in tests")
}

func newTestChatService(t *testing.T, completer *stubCompleter, retriever *stubRetriever) (IChatService, store.SessionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	sessions := store.NewRedisSessionStore(client)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewChatService(sessions, completer, retriever, stubSearcher{}, pubSub, nopLogger{})
	return svc, sessions
}

func TestSendChatPersistsSession(t *testing.T) {
	completer := &stubCompleter{responses: map[string]string{
		"intent_classification": "initial_search",
	}}
	retriever := &stubRetriever{results: []retrieval.RankedJob{
		{ID: "job-1", SourceData: map[string]string{store.SourceCompany: "네이버", store.SourceTitle: "백엔드"}},
	}}
	svc, sessions := newTestChatService(t, completer, retriever)

	resp, err := svc.SendChat(context.Background(), "sid", &dto.ChatRequest{
		Question: "백엔드 공고 추천해줘",
		Profile:  dto.ProfileDTO{Interest: "백엔드"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "sid", resp.SessionID)
	assert.Equal(t, 1, resp.Turn)
	assert.Equal(t, "initial_search", resp.Intent)
	assert.Contains(t, resp.Answer, "네이버")

	saved, err := sessions.Load(context.Background(), "sid")
	assert.NoError(t, err)
	assert.True(t, saved.AwaitingSelection)
	assert.Len(t, saved.JobList, 1)
}

func TestSendChatRequiresSessionID(t *testing.T) {
	svc, _ := newTestChatService(t, &stubCompleter{}, &stubRetriever{})

	_, err := svc.SendChat(context.Background(), "", &dto.ChatRequest{Question: "안녕"})
	assert.ErrorIs(t, err, advisor.ErrMissingUserID)
}

func TestResetConversationKeepsProfile(t *testing.T) {
	completer := &stubCompleter{responses: map[string]string{
		"intent_classification": "chit_chat",
	}}
	svc, sessions := newTestChatService(t, completer, &stubRetriever{})
	ctx := context.Background()

	_, err := svc.SendChat(ctx, "sid", &dto.ChatRequest{
		Question: "안녕",
		Profile:  dto.ProfileDTO{Major: "컴퓨터공학", Interest: "백엔드"},
	})
	assert.NoError(t, err)

	resp, err := svc.ResetConversation(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.ResetCount)

	fresh, err := sessions.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, "컴퓨터공학", fresh.UserInput.Profile.Major)
	assert.Equal(t, 0, fresh.ConversationTurn)
	assert.Empty(t, fresh.ChatHistory)
}

func TestSessionStatsReflectsState(t *testing.T) {
	completer := &stubCompleter{responses: map[string]string{
		"intent_classification": "initial_search",
	}}
	retriever := &stubRetriever{results: []retrieval.RankedJob{
		{ID: "job-1", SourceData: map[string]string{store.SourceCompany: "네이버"}},
	}}
	svc, _ := newTestChatService(t, completer, retriever)
	ctx := context.Background()

	_, err := svc.SendChat(ctx, "sid", &dto.ChatRequest{Question: "공고 추천"})
	assert.NoError(t, err)

	stats, err := svc.SessionStats(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.ConversationTurn)
	assert.Equal(t, "selection", stats.AwaitingState)
	assert.Equal(t, 1, stats.JobListSize)
	assert.False(t, stats.SelectedJob)
}

func TestSessionStatsMissingSession(t *testing.T) {
	svc, _ := newTestChatService(t, &stubCompleter{}, &stubRetriever{})

	_, err := svc.SessionStats(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClearSession(t *testing.T) {
	completer := &stubCompleter{responses: map[string]string{
		"intent_classification": "chit_chat",
	}}
	svc, sessions := newTestChatService(t, completer, &stubRetriever{})
	ctx := context.Background()

	_, err := svc.SendChat(ctx, "sid", &dto.ChatRequest{Question: "안녕"})
	assert.NoError(t, err)

	resp, err := svc.ClearSession(ctx, "sid", false)
	assert.NoError(t, err)
	assert.False(t, resp.Forced)

	_, err = sessions.Load(ctx, "sid")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
