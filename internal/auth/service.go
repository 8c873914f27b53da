package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/peerlink-games/rendezvous-server/internal/github"
	"github.com/peerlink-games/rendezvous-server/internal/session"
)

// ErrInvalidCredentials is returned when email/password don't match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenMinter mints a delegated access token attached to new sessions.
type TokenMinter interface {
	InstallationToken(ctx context.Context) (*github.InstallationToken, error)
}

// Service ties credential verification, delegated-token minting and
// session issuance into the login flow. It is independent of the room
// coordinator; the two only share the process.
type Service struct {
	verifier *Verifier
	tokens   *session.Store
	minter   TokenMinter
}

// NewService creates the login service. minter may be nil, in which case
// sessions are issued without a delegated token.
func NewService(verifier *Verifier, tokens *session.Store, minter TokenMinter) *Service {
	return &Service{
		verifier: verifier,
		tokens:   tokens,
		minter:   minter,
	}
}

// Login validates credentials and returns an opaque session token plus its
// lifetime in seconds. Any previously issued token for the same user is
// revoked.
func (s *Service) Login(ctx context.Context, email, password string) (string, int, error) {
	if !s.verifier.Verify(email, password) {
		return "", 0, ErrInvalidCredentials
	}

	var ghToken, ghExpiresAt string
	if s.minter != nil {
		tok, err := s.minter.InstallationToken(ctx)
		if err != nil {
			return "", 0, fmt.Errorf("mint delegated token: %w", err)
		}
		ghToken = tok.Token
		ghExpiresAt = tok.ExpiresAt
	}

	token, expiresIn, err := s.tokens.Issue(email, ghToken, ghExpiresAt)
	if err != nil {
		return "", 0, fmt.Errorf("issue session token: %w", err)
	}
	return token, expiresIn, nil
}

// ValidateToken resolves a session token to its record.
func (s *Service) ValidateToken(token string) (*session.Record, error) {
	return s.tokens.Validate(token)
}
