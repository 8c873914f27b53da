package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/peerlink-games/rendezvous-server/internal/utils"
)

// ErrTokenInvalid is returned for unknown, revoked or expired tokens.
var ErrTokenInvalid = errors.New("invalid session token")

const tokenBytes = 32

// Record is one issued session token with its delegated GitHub token.
type Record struct {
	User            string `json:"user"`
	IssuedAt        int64  `json:"issued_at"`
	ExpiresAt       int64  `json:"expires_at"`
	Revoked         bool   `json:"revoked"`
	GitHubToken     string `json:"github_token"`
	GitHubExpiresAt string `json:"github_expires_at"`
}

// Store issues and validates opaque session tokens against a JSON file.
// Every operation reads and rewrites the whole file under one lock; the
// store is tiny by design (one live token per user).
type Store struct {
	mu   sync.Mutex
	path string
	ttl  time.Duration

	now func() time.Time
}

// NewStore builds a token store backed by the given file path.
func NewStore(path string, ttl time.Duration) *Store {
	return &Store{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Issue creates a new token for the user, revoking any live token the same
// user already holds. Returns the token and its lifetime in seconds.
func (s *Store) Issue(user, githubToken, githubExpiresAt string) (string, int, error) {
	token, err := utils.NewOpaqueToken(tokenBytes)
	if err != nil {
		return "", 0, fmt.Errorf("generate token: %w", err)
	}

	now := s.now().Unix()
	ttlSeconds := int(s.ttl / time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.load()
	if err != nil {
		return "", 0, err
	}
	for key, rec := range store {
		if rec.User == user {
			rec.Revoked = true
			store[key] = rec
		}
	}
	store[token] = Record{
		User:            user,
		IssuedAt:        now,
		ExpiresAt:       now + int64(ttlSeconds),
		GitHubToken:     githubToken,
		GitHubExpiresAt: githubExpiresAt,
	}
	if err := s.save(store); err != nil {
		return "", 0, err
	}
	return token, ttlSeconds, nil
}

// Validate returns the record behind a token, or ErrTokenInvalid if the
// token is unknown, revoked or past its expiry.
func (s *Store) Validate(token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := store[token]
	if !ok || rec.Revoked || rec.ExpiresAt < s.now().Unix() {
		return nil, ErrTokenInvalid
	}
	return &rec, nil
}

func (s *Store) load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]Record), nil
		}
		return nil, fmt.Errorf("read token store: %w", err)
	}
	store := make(map[string]Record)
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("decode token store: %w", err)
	}
	return store, nil
}

func (s *Store) save(store map[string]Record) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token store: %w", err)
	}
	return nil
}
