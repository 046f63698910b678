package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionTTL is the rolling lifetime of the conversation state.
	SessionTTL = 30 * time.Minute
	// MetaTTL keeps activity metadata around well past the session itself.
	MetaTTL = 24 * time.Hour
	// RenewThreshold: a session whose remaining TTL drops below this is
	// treated as expiring and gets replaced on the next turn.
	RenewThreshold = 2 * time.Minute
	// InactivityLimit: idle longer than this and the next turn starts fresh.
	InactivityLimit = 28 * time.Minute

	// MaxChatHistory caps the persisted history length.
	MaxChatHistory = 20

	lockTTL = 15 * time.Second
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// ErrLocked is returned when another request holds the session lock.
var ErrLocked = errors.New("session is locked by another request")

// SessionMeta tracks activity independently of the session body so the
// renewal decision survives the main key expiring.
type SessionMeta struct {
	LastActivity      time.Time `json:"last_activity"`
	ConversationCount int       `json:"conversation_count"`
	SessionStarted    time.Time `json:"session_started"`
}

// SessionInfo is the TTL-derived view exposed by the session endpoints.
type SessionInfo struct {
	SessionID    string        `json:"session_id"`
	Exists       bool          `json:"exists"`
	TTL          time.Duration `json:"ttl"`
	ShouldRenew  bool          `json:"should_renew"`
	LastActivity time.Time     `json:"last_activity"`
	Started      time.Time     `json:"session_started"`
	Turns        int           `json:"conversation_count"`
}

// SessionStore persists conversation sessions.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*ConversationSession, error)
	Save(ctx context.Context, sessionID string, session *ConversationSession) error
	Delete(ctx context.Context, sessionID string, force bool) error
	Info(ctx context.Context, sessionID string) (*SessionInfo, error)
	ShouldRenew(ctx context.Context, sessionID string) (bool, error)
	Lock(ctx context.Context, sessionID string) (func(), error)
}

// RedisSessionStore keeps sessions under session:{id} with a rolling TTL
// and activity metadata under session:meta:{id}.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func sessionKey(id string) string { return "session:" + id }
func metaKey(id string) string    { return "session:meta:" + id }
func lockKey(id string) string    { return "session:lock:" + id }

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*ConversationSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	session := NewConversationSession()
	if err := json.Unmarshal([]byte(raw), session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return session, nil
}

// Save writes the session body with a refreshed TTL and updates the
// activity metadata. History is capped to the most recent entries.
func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, session *ConversationSession) error {
	session.SchemaVersion = SchemaVersion
	if n := len(session.ChatHistory); n > MaxChatHistory {
		session.ChatHistory = session.ChatHistory[n-MaxChatHistory:]
	}

	body, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), body, SessionTTL).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return s.touchMeta(ctx, sessionID, session.ConversationTurn)
}

func (s *RedisSessionStore) touchMeta(ctx context.Context, sessionID string, turns int) error {
	now := s.now()
	meta, err := s.loadMeta(ctx, sessionID)
	if err != nil {
		meta = &SessionMeta{SessionStarted: now}
	}
	meta.LastActivity = now
	meta.ConversationCount = turns
	if meta.SessionStarted.IsZero() {
		meta.SessionStarted = now
	}

	body, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode session meta %s: %w", sessionID, err)
	}
	return s.client.Set(ctx, metaKey(sessionID), body, MetaTTL).Err()
}

func (s *RedisSessionStore) loadMeta(ctx context.Context, sessionID string) (*SessionMeta, error) {
	raw, err := s.client.Get(ctx, metaKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	var meta SessionMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ShouldRenew reports whether the next turn must start from a fresh
// session: the body is gone, close to expiry, or the user has been idle
// past the inactivity limit.
func (s *RedisSessionStore) ShouldRenew(ctx context.Context, sessionID string) (bool, error) {
	ttl, err := s.client.TTL(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return true, fmt.Errorf("ttl session %s: %w", sessionID, err)
	}
	// -2: no key, -1: no expiry set (treat as missing contract, renew).
	if ttl < 0 {
		return true, nil
	}
	if ttl < RenewThreshold {
		return true, nil
	}

	meta, err := s.loadMeta(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return true, err
	}
	return s.now().Sub(meta.LastActivity) > InactivityLimit, nil
}

// Delete removes the session body. Force mode also drops the metadata
// and any stale lock.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string, force bool) error {
	keys := []string{sessionKey(sessionID)}
	if force {
		keys = append(keys, metaKey(sessionID), lockKey(sessionID))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisSessionStore) Info(ctx context.Context, sessionID string) (*SessionInfo, error) {
	info := &SessionInfo{SessionID: sessionID}

	ttl, err := s.client.TTL(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("ttl session %s: %w", sessionID, err)
	}
	info.Exists = ttl >= 0
	if ttl > 0 {
		info.TTL = ttl
	}

	if meta, err := s.loadMeta(ctx, sessionID); err == nil {
		info.LastActivity = meta.LastActivity
		info.Started = meta.SessionStarted
		info.Turns = meta.ConversationCount
	}

	renew, err := s.ShouldRenew(ctx, sessionID)
	if err == nil {
		info.ShouldRenew = renew
	}
	return info, nil
}

// Lock takes the per-session mutex so concurrent turns for the same
// session serialize instead of clobbering each other. The returned
// release func is safe to call once.
func (s *RedisSessionStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockKey(sessionID)
	for attempt := 0; attempt < 3; attempt++ {
		ok, err := s.client.SetNX(ctx, key, "1", lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lock session %s: %w", sessionID, err)
		}
		if ok {
			return func() {
				s.client.Del(context.Background(), key)
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return nil, ErrLocked
}
