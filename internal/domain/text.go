package domain

import "strings"

// FirstNonBlank returns the first value containing more than whitespace, as
// given, or "" when every value is blank.
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
