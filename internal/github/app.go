package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config identifies the GitHub App used to mint installation tokens.
type Config struct {
	AppID          string
	InstallationID string
	PrivateKey     string // PEM-encoded RSA key
	APIURL         string // defaults to https://api.github.com
	JWTLifetime    time.Duration
}

// InstallationToken is a delegated access token scoped to one installation.
type InstallationToken struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Client mints short-lived installation access tokens for a GitHub App.
type Client struct {
	cfg  Config
	http *http.Client

	now func() time.Time
}

// NewClient builds a token client. The HTTP client gets a conservative
// timeout; token minting is on the login path and must not hang it.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.github.com"
	}
	if cfg.JWTLifetime == 0 {
		cfg.JWTLifetime = 10 * time.Minute
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
		now:  time.Now,
	}
}

// InstallationToken exchanges an app JWT for an installation access token.
func (c *Client) InstallationToken(ctx context.Context) (*InstallationToken, error) {
	appJWT, err := c.buildAppJWT()
	if err != nil {
		return nil, fmt.Errorf("build app jwt: %w", err)
	}

	url := fmt.Sprintf("%s/app/installations/%s/access_tokens",
		strings.TrimSuffix(c.cfg.APIURL, "/"), c.cfg.InstallationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request installation token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("installation token request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var token InstallationToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode installation token: %w", err)
	}
	return &token, nil
}

// buildAppJWT signs the short-lived RS256 JWT that authenticates the app
// itself. Issued-at is backdated a minute to absorb clock skew.
func (c *Client) buildAppJWT() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(c.cfg.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.cfg.AppID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.JWTLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}
