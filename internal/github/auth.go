package github

import (
	"context"
	"strings"
)

// Credential is an Authorization header value split into scheme and token.
type Credential struct {
	Scheme string
	Token  string
}

func (c Credential) header() string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "token"
	}
	return scheme + " " + c.Token
}

// CredentialResolver produces a credential scoped to one repository. It
// returns an *APIError with status 401 when no credential exists and 404 when
// the repository is not reachable by the configured identity.
type CredentialResolver interface {
	ResolveCredential(ctx context.Context, owner, repo string) (Credential, error)
}

// StaticTokenResolver serves a single personal access token for every repository.
type StaticTokenResolver struct {
	Token string
}

func (r StaticTokenResolver) ResolveCredential(_ context.Context, owner, repo string) (Credential, error) {
	token := strings.TrimSpace(r.Token)
	if token == "" {
		return Credential{}, errNoCredential(owner, repo)
	}
	return Credential{Scheme: "token", Token: token}, nil
}

type tokenContextKey struct{}

// WithToken attaches a caller-supplied bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the token attached by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// ContextResolver prefers the token carried by the request context and falls
// back to another resolver when there is none.
type ContextResolver struct {
	Fallback CredentialResolver
}

func (r ContextResolver) ResolveCredential(ctx context.Context, owner, repo string) (Credential, error) {
	if token, ok := TokenFromContext(ctx); ok {
		return Credential{Scheme: "Bearer", Token: token}, nil
	}
	if r.Fallback == nil {
		return Credential{}, errNoCredential(owner, repo)
	}
	return r.Fallback.ResolveCredential(ctx, owner, repo)
}
