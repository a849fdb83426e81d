package gitlocal

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		raw   string
		owner string
		repo  string
	}{
		{"https://github.com/acme/widgets.git", "acme", "widgets"},
		{"https://github.com/acme/widgets", "acme", "widgets"},
		{"https://token@github.com/acme/widgets/", "acme", "widgets"},
		{"git@github.com:acme/widgets.git", "acme", "widgets"},
		{"ssh://git@github.com/acme/widgets.git", "acme", "widgets"},
		{"ssh://git@ghe.example.com:2222/acme/widgets.git", "acme", "widgets"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			owner, repo, err := ParseRemoteURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestParseRemoteURL_Invalid(t *testing.T) {
	for _, raw := range []string{"", "widgets", "https://github.com/acme", "git@github.com:widgets.git"} {
		_, _, err := ParseRemoteURL(raw)
		assert.Error(t, err, raw)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	require.NoError(t, err)

	info, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, "acme", info.Owner)
	assert.Equal(t, "widgets", info.Repo)
}

func TestDetect_NoOrigin(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = Detect(dir)
	assert.ErrorIs(t, err, ErrNoRemote)
}

func TestDetect_NotARepository(t *testing.T) {
	_, err := Detect(t.TempDir())
	assert.Error(t, err)
}
