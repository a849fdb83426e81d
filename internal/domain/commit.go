package domain

import "time"

// ShortSHALen is the length of the commit identity used for dedup and display.
const ShortSHALen = 7

// CommitRecord is the compact form of a provider commit.
type CommitRecord struct {
	ShortSHA string    `json:"shortSha"`
	Message  string    `json:"message"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
}

// ShortSHA truncates a full hash to ShortSHALen characters.
func ShortSHA(sha string) string {
	if len(sha) <= ShortSHALen {
		return sha
	}
	return sha[:ShortSHALen]
}

type BranchRef struct {
	Name string `json:"name"`
}

// DateWindow is an inclusive [Since, Until] range of UTC instants.
type DateWindow struct {
	Since time.Time
	Until time.Time
}

// Repository is the subset of provider repository metadata nippo relies on.
type Repository struct {
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	FullName      string `json:"fullName"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"defaultBranch"`
}
