// Package gitlocal infers the GitHub repository of a local clone.
package gitlocal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNoRemote is returned when the repository has no usable origin remote.
var ErrNoRemote = errors.New("no origin remote")

// RepoInfo describes the GitHub repository a clone tracks.
type RepoInfo struct {
	Owner  string
	Repo   string
	Branch string // checked-out branch, empty when detached
}

// Detect opens the repository containing dir and reads its origin remote.
func Detect(dir string) (*RepoInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", dir, err)
	}

	remote, err := repo.Remote("origin")
	if errors.Is(err, git.ErrRemoteNotFound) {
		return nil, ErrNoRemote
	}
	if err != nil {
		return nil, fmt.Errorf("reading origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, ErrNoRemote
	}

	owner, name, err := ParseRemoteURL(urls[0])
	if err != nil {
		return nil, err
	}
	return &RepoInfo{Owner: owner, Repo: name, Branch: currentBranch(repo)}, nil
}

func currentBranch(repo *git.Repository) string {
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	if head.Name() == plumbing.HEAD || !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}

// ParseRemoteURL extracts owner and repository from the remote URL forms
// GitHub hands out: https://github.com/o/r(.git), git@github.com:o/r.git and
// ssh://git@github.com/o/r.git.
func ParseRemoteURL(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	var path string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("parsing remote url %q: %w", raw, err)
		}
		path = u.Path
	case strings.Contains(raw, ":"):
		// scp-like: user@host:owner/repo.git
		_, after, _ := strings.Cut(raw, ":")
		path = after
	default:
		return "", "", fmt.Errorf("unrecognized remote url %q", raw)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("remote url %q does not name owner/repo", raw)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
