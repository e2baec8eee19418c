// Package compliance holds the attendance/EOD verification core: PR-link
// counting, tie-aware leaderboard selection and fixed-offset day boundaries.
// Everything here is a pure function over its inputs; fetching, filtering and
// announcing belong to the callers (bot jobs and the dashboard API).
package compliance

import "regexp"

// prLinkRegex matches one GitHub pull-request URL. Owner and repo allow word
// characters, dots and hyphens; the number is not anchored on a trailing
// boundary so two URLs concatenated back to back both match.
var prLinkRegex = regexp.MustCompile(`https://github\.com/[\w.-]+/[\w.-]+/pull/\d+`)

// CountPRLinks counts non-overlapping PR URLs in free-form message content.
// Duplicates count individually; issue links never count. Any string input is
// safe, the empty string yields 0.
func CountPRLinks(content string) int {
	if content == "" {
		return 0
	}
	return len(prLinkRegex.FindAllString(content, -1))
}
