package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/github"
	"github.com/alexanderramin/nippo/internal/llm"
	"github.com/alexanderramin/nippo/internal/repository"
)

// classifyError maps a lower-layer failure onto the app error taxonomy. Errors
// that already are *app.Error pass through unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := app.AsError(err); ok {
		return appErr
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind() {
		case github.KindUnauthorized:
			return app.Unauthorizedf(err, "%s", apiErr.Message)
		case github.KindNotFound:
			return app.NotFoundf(err, "%s", apiErr.Message)
		default:
			return app.Upstreamf(apiErr.Status, err, "%s", err.Error())
		}
	}

	var statusErr *llm.StatusError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return app.Configf(err, "%s", err.Error())
	case errors.As(err, &statusErr):
		return app.Upstreamf(statusErr.Status, err, "%s", err.Error())
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return app.Upstreamf(http.StatusGatewayTimeout, err, "%s", err.Error())
	case errors.Is(err, llm.ErrProviderUnavailable), errors.Is(err, llm.ErrEmptyOutput), errors.Is(err, llm.ErrRetryExhausted):
		return app.Upstreamf(http.StatusBadGateway, err, "%s", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return app.NotFoundf(err, "%s", err.Error())
	case errors.Is(err, domain.ErrEntryNotCompleted), errors.Is(err, domain.ErrEntryAlreadyStopped):
		return app.Validationf("%s", err.Error())
	}
	return &app.Error{Kind: app.KindUpstream, Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "  - " + e.Error()
	}
	return app.Validationf("import validation failed (%d errors):\n%s", len(errs), strings.Join(msgs, "\n"))
}

// validateRepoRef rejects owner/repo values that cannot name a GitHub repository.
func validateRepoRef(owner, repo string) error {
	if owner == "" || repo == "" {
		return app.Validationf("owner and repo are required")
	}
	for _, part := range []string{owner, repo} {
		if part == "." || part == ".." {
			return app.Validationf("invalid repository name %q", part)
		}
		for _, r := range part {
			if !isRepoRune(r) {
				return app.Validationf("invalid character %q in %s/%s", r, owner, repo)
			}
		}
	}
	return nil
}

func isRepoRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
		r == '-' || r == '_' || r == '.'
}

func validateReportType(t domain.ReportType) error {
	if t != domain.ReportDaily && t != domain.ReportMeeting {
		return app.Validationf("unknown report type %q (want daily or meeting)", t)
	}
	return nil
}

func dateError(err error) error {
	return app.Validationf("%s", err.Error())
}

func wrapf(err error, format string, args ...any) error {
	return classifyError(fmt.Errorf(format+": %w", append(args, err)...))
}
