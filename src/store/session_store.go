package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/username/cifra/src/storage"
)

const sessionKeyFormat = "cifra_session_%s"

var ErrSessionNotFound = errors.New("session not found or expired")

// Session is one logged-in device. Sessions replace the old single
// active-session slot: each token gets its own record with an explicit
// expiry, created at login and deleted at logout.
type Session struct {
	UserID       string    `json:"userId"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	UserAgent    string    `json:"userAgent"`
	ClientIP     string    `json:"clientIp"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionStore keeps one record per access token.
type SessionStore struct {
	kv storage.Store
}

func NewSessionStore(kv storage.Store) *SessionStore {
	return &SessionStore{kv: kv}
}

func (s *SessionStore) Create(session Session) error {
	session.CreatedAt = time.Now()
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Put(fmt.Sprintf(sessionKeyFormat, session.Token), raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetByToken returns the session for an access token. An expired record is
// removed on sight and reported as not found.
func (s *SessionStore) GetByToken(token string) (Session, error) {
	key := fmt.Sprintf(sessionKeyFormat, token)
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		_ = s.kv.Delete(key)
		return Session{}, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.kv.Delete(key)
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// DeleteByToken removes a session. Deleting an already absent session is not
// an error; logout must always succeed.
func (s *SessionStore) DeleteByToken(token string) error {
	return s.kv.Delete(fmt.Sprintf(sessionKeyFormat, token))
}
