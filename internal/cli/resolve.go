package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/nippo/internal/gitlocal"
)

// resolveRepo reads "owner/repo" from arg, or from the origin remote of the
// working directory when arg is empty.
func resolveRepo(app *App, arg string) (string, string, error) {
	if arg != "" {
		owner, repo, ok := strings.Cut(arg, "/")
		if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
			return "", "", fmt.Errorf("invalid repository %q (want owner/repo)", arg)
		}
		return owner, repo, nil
	}

	detect := app.DetectRepo
	if detect == nil {
		detect = gitlocal.Detect
	}
	info, err := detect(".")
	if err != nil {
		if errors.Is(err, gitlocal.ErrNoRemote) {
			return "", "", fmt.Errorf("no origin remote in the current repository; pass owner/repo")
		}
		return "", "", fmt.Errorf("repository not given and not detectable: %w", err)
	}
	return info.Owner, info.Repo, nil
}
