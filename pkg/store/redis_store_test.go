package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client), mr
}

func TestLoadMissingSession(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	session := NewConversationSession()
	session.Intent = IntentInitialSearch
	session.AppendTurn("백엔드 공고 추천해줘", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	session.JobList = []JobCandidate{{Index: 1, ID: "job-1", SourceData: map[string]string{SourceCompany: "네이버"}}}
	session.ExcludedIDs = []string{"job-0"}

	if err := s.Save(ctx, "sid", session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "sid")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Intent != IntentInitialSearch {
		t.Errorf("Intent = %q", got.Intent)
	}
	if got.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", got.SchemaVersion, SchemaVersion)
	}
	if len(got.JobList) != 1 || got.JobList[0].SourceData[SourceCompany] != "네이버" {
		t.Errorf("JobList = %+v", got.JobList)
	}

	ttl := mr.TTL(sessionKey("sid"))
	if ttl <= 0 || ttl > SessionTTL {
		t.Errorf("session TTL = %v, want (0, %v]", ttl, SessionTTL)
	}
	metaTTL := mr.TTL(metaKey("sid"))
	if metaTTL <= 0 || metaTTL > MetaTTL {
		t.Errorf("meta TTL = %v, want (0, %v]", metaTTL, MetaTTL)
	}
}

func TestSaveCapsHistory(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	session := NewConversationSession()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < MaxChatHistory+5; i++ {
		session.AppendTurn(fmt.Sprintf("질문 %d", i), now)
		session.RecordAnswer(fmt.Sprintf("답변 %d", i))
	}

	if err := s.Save(ctx, "sid", session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "sid")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.ChatHistory) != MaxChatHistory {
		t.Fatalf("history length = %d, want %d", len(got.ChatHistory), MaxChatHistory)
	}
	if got.ChatHistory[0].User != "질문 5" {
		t.Errorf("oldest kept turn = %q, want 질문 5", got.ChatHistory[0].User)
	}
}

func TestShouldRenew(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	t.Run("missing session", func(t *testing.T) {
		renew, err := s.ShouldRenew(ctx, "ghost")
		if err != nil {
			t.Fatalf("ShouldRenew: %v", err)
		}
		if !renew {
			t.Error("missing session should renew")
		}
	})

	t.Run("fresh session", func(t *testing.T) {
		if err := s.Save(ctx, "fresh", NewConversationSession()); err != nil {
			t.Fatalf("Save: %v", err)
		}
		renew, err := s.ShouldRenew(ctx, "fresh")
		if err != nil {
			t.Fatalf("ShouldRenew: %v", err)
		}
		if renew {
			t.Error("fresh session should not renew")
		}
	})

	t.Run("close to expiry", func(t *testing.T) {
		if err := s.Save(ctx, "old", NewConversationSession()); err != nil {
			t.Fatalf("Save: %v", err)
		}
		mr.FastForward(SessionTTL - time.Minute)
		renew, err := s.ShouldRenew(ctx, "old")
		if err != nil {
			t.Fatalf("ShouldRenew: %v", err)
		}
		if !renew {
			t.Error("session below renew threshold should renew")
		}
	})

	t.Run("idle past limit", func(t *testing.T) {
		if err := s.Save(ctx, "idle", NewConversationSession()); err != nil {
			t.Fatalf("Save: %v", err)
		}
		s.now = func() time.Time { return time.Now().Add(InactivityLimit + time.Minute) }
		defer func() { s.now = time.Now }()

		renew, err := s.ShouldRenew(ctx, "idle")
		if err != nil {
			t.Fatalf("ShouldRenew: %v", err)
		}
		if !renew {
			t.Error("idle session should renew")
		}
	})
}

func TestDelete(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "sid", NewConversationSession()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Delete(ctx, "sid", false); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists(sessionKey("sid")) {
		t.Error("session body should be gone")
	}
	if !mr.Exists(metaKey("sid")) {
		t.Error("meta should survive a non-forced delete")
	}

	if err := s.Save(ctx, "sid", NewConversationSession()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "sid", true); err != nil {
		t.Fatalf("Delete force: %v", err)
	}
	if mr.Exists(metaKey("sid")) {
		t.Error("forced delete should drop the meta key")
	}
}

func TestInfo(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	session := NewConversationSession()
	session.AppendTurn("안녕", time.Now())
	if err := s.Save(ctx, "sid", session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := s.Info(ctx, "sid")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if !info.Exists {
		t.Error("Exists = false, want true")
	}
	if info.Turns != 1 {
		t.Errorf("Turns = %d, want 1", info.Turns)
	}
	if info.ShouldRenew {
		t.Error("fresh session should not need renewal")
	}

	ghost, err := s.Info(ctx, "ghost")
	if err != nil {
		t.Fatalf("Info ghost: %v", err)
	}
	if ghost.Exists {
		t.Error("ghost session should not exist")
	}
	if !ghost.ShouldRenew {
		t.Error("ghost session should need renewal")
	}
}

func TestLockContention(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	release, err := s.Lock(ctx, "sid")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	_, err = s.Lock(ctx, "sid")
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("second Lock err = %v, want ErrLocked", err)
	}

	release()

	release2, err := s.Lock(ctx, "sid")
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	release2()
}
