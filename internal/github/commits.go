package github

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
)

type rawCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

func (r rawCommit) record() domain.CommitRecord {
	author := r.Commit.Author.Name
	if author == "" && r.Author != nil {
		author = r.Author.Login
	}
	return domain.CommitRecord{
		ShortSHA: domain.ShortSHA(r.SHA),
		Message:  r.Commit.Message,
		Author:   author,
		Date:     r.Commit.Author.Date.UTC(),
	}
}

type rawBranch struct {
	Name string `json:"name"`
}

type rawRepository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}

// FetchCommits returns the commits reachable from branch whose author date lies
// within [since, until], in provider order.
func (c *Client) FetchCommits(ctx context.Context, owner, repo, branch string, since, until time.Time) ([]domain.CommitRecord, error) {
	query := url.Values{}
	query.Set("sha", branch)
	query.Set("since", since.UTC().Format(time.RFC3339))
	query.Set("until", until.UTC().Format(time.RFC3339))
	query.Set("per_page", perPage)

	var records []domain.CommitRecord
	err := c.getPages(ctx, repoPath(owner, repo)+"/commits", query, owner, repo, func(body []byte) error {
		var page []rawCommit
		if err := decode(body, &page); err != nil {
			return err
		}
		for _, raw := range page {
			records = append(records, raw.record())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching commits for %s/%s@%s: %w", owner, repo, branch, err)
	}
	return records, nil
}

// ListBranches returns every branch of the repository.
func (c *Client) ListBranches(ctx context.Context, owner, repo string) ([]domain.BranchRef, error) {
	query := url.Values{}
	query.Set("per_page", perPage)

	var branches []domain.BranchRef
	err := c.getPages(ctx, repoPath(owner, repo)+"/branches", query, owner, repo, func(body []byte) error {
		var page []rawBranch
		if err := decode(body, &page); err != nil {
			return err
		}
		for _, b := range page {
			branches = append(branches, domain.BranchRef{Name: b.Name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

// GetRepository returns repository metadata, used for the privacy check and
// to find the default branch.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	var raw rawRepository
	if err := c.getJSON(ctx, repoPath(owner, repo), nil, owner, repo, &raw); err != nil {
		return nil, err
	}
	return &domain.Repository{
		Owner:         domain.FirstNonBlank(raw.Owner.Login, owner),
		Name:          domain.FirstNonBlank(raw.Name, repo),
		FullName:      domain.FirstNonBlank(raw.FullName, owner+"/"+repo),
		Private:       raw.Private,
		DefaultBranch: raw.DefaultBranch,
	}, nil
}
