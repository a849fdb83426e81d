package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/github"
	"github.com/alexanderramin/nippo/internal/llm"
	"github.com/alexanderramin/nippo/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   app.ErrorKind
		status int
	}{
		{"no credential", &github.APIError{Status: http.StatusUnauthorized, Message: "no credential"}, app.KindUnauthorized, http.StatusUnauthorized},
		{"not installed", fmt.Errorf("resolving: %w", &github.APIError{Status: http.StatusNotFound, Message: "app not installed"}), app.KindNotFound, http.StatusNotFound},
		{"rate limited", &github.APIError{Status: http.StatusForbidden, Message: "rate limit"}, app.KindUpstream, http.StatusForbidden},
		{"network", &github.APIError{Status: http.StatusBadGateway, Message: "dial tcp"}, app.KindUpstream, http.StatusBadGateway},
		{"missing key", llm.ErrMissingAPIKey, app.KindConfig, http.StatusInternalServerError},
		{"model status", &llm.StatusError{Provider: llm.ProviderGemini, Status: http.StatusServiceUnavailable}, app.KindUpstream, http.StatusServiceUnavailable},
		{"model timeout", llm.ErrTimeout, app.KindUpstream, http.StatusGatewayTimeout},
		{"deadline", context.DeadlineExceeded, app.KindUpstream, http.StatusGatewayTimeout},
		{"model unavailable", fmt.Errorf("%w: refused", llm.ErrProviderUnavailable), app.KindUpstream, http.StatusBadGateway},
		{"retries exhausted", fmt.Errorf("%w: %w", llm.ErrRetryExhausted, llm.ErrEmptyOutput), app.KindUpstream, http.StatusBadGateway},
		{"record missing", fmt.Errorf("report: %w", repository.ErrNotFound), app.KindNotFound, http.StatusNotFound},
		{"entry recording", domain.ErrEntryNotCompleted, app.KindValidation, http.StatusBadRequest},
		{"unknown", errors.New("disk I/O error"), app.KindUpstream, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err)
			appErr, ok := app.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.status, appErr.HTTPStatus())
		})
	}
}

func TestClassifyError_PassesThroughAppErrors(t *testing.T) {
	orig := app.Validationf("bad input")
	assert.Same(t, orig, classifyError(orig))
	assert.Nil(t, classifyError(nil))
}

func TestClassifyError_KeepsCause(t *testing.T) {
	cause := &github.APIError{Status: http.StatusForbidden, Message: "Resource not accessible"}
	err := classifyError(fmt.Errorf("fetching branches for acme/widgets: %w", cause))

	var apiErr *github.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "acme/widgets")
	assert.Contains(t, err.Error(), "403 Forbidden")
}

func TestValidateRepoRef(t *testing.T) {
	assert.NoError(t, validateRepoRef("acme", "widgets.go"))
	assert.NoError(t, validateRepoRef("my-org", "repo_2"))
	assert.Error(t, validateRepoRef("", "widgets"))
	assert.Error(t, validateRepoRef("acme", ".."))
	assert.Error(t, validateRepoRef("acme", "wid/gets"))
}
