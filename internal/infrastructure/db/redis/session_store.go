package redis

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cse341/records-api/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps AuthSessions in Redis with a sliding TTL.
// Key format: session:<sha256(token)>. The raw token only ever lives in the
// caller's cookie.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. If ttl <= 0, defaultSessionTTL is used.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Save stores s under a new random token and returns the token.
func (s *SessionStore) Save(ctx context.Context, sess *domain.AuthSession) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, key(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Get resolves token and pushes its expiry out by another ttl.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.AuthSession, error) {
	payload, err := s.client.GetEx(ctx, key(token), s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess domain.AuthSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes the session. Unknown tokens are ignored.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
