// Package pkg
package pkg

import "strings"

// MatchToken reports the first token found in s, ignoring case. A token
// ending in "*" only matches as a prefix.
func MatchToken(s string, tokens []string) (string, bool) {
	s = strings.ToLower(s)

	for _, token := range tokens {
		t := strings.ToLower(token)

		if prefix, ok := strings.CutSuffix(t, "*"); ok {
			if strings.HasPrefix(s, prefix) {
				return token, true
			}
			continue
		}

		if strings.Contains(s, t) {
			return token, true
		}
	}

	return "", false
}
