package github

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenRefreshMargin is how long before expiry a cached installation token is
// considered stale.
const tokenRefreshMargin = time.Minute

type installationToken struct {
	token     string
	expiresAt time.Time
}

// AppInstallationResolver authenticates as a GitHub App and exchanges the app
// JWT for a repository installation token.
type AppInstallationResolver struct {
	t     *transport
	appID string
	key   *rsa.PrivateKey
	now   func() time.Time

	mu            sync.Mutex
	installations map[string]int64
	tokens        map[int64]installationToken
}

// NewAppInstallationResolver creates a resolver for the given app.
func NewAppInstallationResolver(cfg Config, appID string, key *rsa.PrivateKey, logger *slog.Logger) *AppInstallationResolver {
	return &AppInstallationResolver{
		t:             newTransport(cfg.withDefaults(), logger),
		appID:         appID,
		key:           key,
		now:           time.Now,
		installations: make(map[string]int64),
		tokens:        make(map[int64]installationToken),
	}
}

// LoadPrivateKey reads a PEM encoded RSA key as downloaded from the app settings page.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading app private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("parsing app private key: %w", err)
	}
	return key, nil
}

func (r *AppInstallationResolver) ResolveCredential(ctx context.Context, owner, repo string) (Credential, error) {
	appJWT, err := r.signJWT()
	if err != nil {
		return Credential{}, &APIError{Status: http.StatusUnauthorized, Message: "signing app JWT: " + err.Error(), Err: err}
	}

	id, err := r.installationID(ctx, owner, repo, appJWT)
	if err != nil {
		return Credential{}, err
	}

	token, err := r.installationToken(ctx, id, appJWT)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Scheme: "Bearer", Token: token}, nil
}

func (r *AppInstallationResolver) signJWT() (string, error) {
	now := r.now()
	claims := jwt.RegisteredClaims{
		Issuer:    r.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(r.key)
}

func (r *AppInstallationResolver) installationID(ctx context.Context, owner, repo, appJWT string) (int64, error) {
	key := owner + "/" + repo
	r.mu.Lock()
	id, ok := r.installations[key]
	r.mu.Unlock()
	if ok {
		return id, nil
	}

	resp, err := r.t.send(ctx, http.MethodGet, r.t.url(repoPath(owner, repo)+"/installation", nil), "Bearer "+appJWT, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			apiErr.Message = fmt.Sprintf("app is not installed on %s/%s", owner, repo)
		}
		return 0, err
	}
	var payload struct {
		ID int64 `json:"id"`
	}
	if err := decode(resp.Body, &payload); err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.installations[key] = payload.ID
	r.mu.Unlock()
	return payload.ID, nil
}

func (r *AppInstallationResolver) installationToken(ctx context.Context, id int64, appJWT string) (string, error) {
	r.mu.Lock()
	cached, ok := r.tokens[id]
	r.mu.Unlock()
	if ok && r.now().Before(cached.expiresAt.Add(-tokenRefreshMargin)) {
		return cached.token, nil
	}

	path := "/app/installations/" + strconv.FormatInt(id, 10) + "/access_tokens"
	resp, err := r.t.send(ctx, http.MethodPost, r.t.url(path, nil), "Bearer "+appJWT, nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := decode(resp.Body, &payload); err != nil {
		return "", err
	}

	r.mu.Lock()
	r.tokens[id] = installationToken{token: payload.Token, expiresAt: payload.ExpiresAt}
	r.mu.Unlock()
	return payload.Token, nil
}
