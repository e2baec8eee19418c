package bot

import (
	"fmt"
	"strings"

	"github.com/fractal-nyc/attendabot/core/compliance"
	"github.com/fractal-nyc/attendabot/core/curriculum"
)

func formatMorning(pos curriculum.Position, assignment *curriculum.Assignment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Good morning! Today is week %d, day %d.\n", pos.Week, pos.Day)
	if assignment != nil {
		fmt.Fprintf(&sb, "Today's assignment: %s", assignment.Title)
		if assignment.GithubPath != "" {
			fmt.Fprintf(&sb, " (%s)", assignment.GithubPath)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Remember to post your attendance check-in.")
	return sb.String()
}

// formatMissing renders a nudge for students who have not posted yet.
// Mentions use Discord's <@id> syntax so students get pinged.
func formatMissing(header string, missingIDs []string) string {
	if len(missingIDs) == 0 {
		return ""
	}
	mentions := make([]string, 0, len(missingIDs))
	for _, id := range missingIDs {
		mentions = append(mentions, "<@"+id+">")
	}
	return header + "\n" + strings.Join(mentions, " ")
}

func formatLeaderboard(entries []compliance.LeaderboardEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Today's PR leaderboard:\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %s with %d PR", i+1, e.Name, e.Count)
		if e.Count != 1 {
			sb.WriteString("s")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
