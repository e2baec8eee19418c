package compliance

import "sort"

// podiumSize is the inclusion threshold for TopWithTies. Whole rank groups are
// accumulated until at least this many entries are in.
const podiumSize = 3

// LeaderboardEntry is one ranked line of a PR leaderboard.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopWithTies selects the announced prefix of a leaderboard already sorted
// descending by count. Consecutive equal counts form a rank group; groups are
// included whole until the running total reaches podiumSize. The first group
// is always included, however large, and a group is never split: a 4-way tie
// for first returns all 4 and nothing below it.
func TopWithTies(sortedDescending []LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(sortedDescending))
	i := 0
	for i < len(sortedDescending) {
		if len(out) >= podiumSize {
			break
		}
		j := i
		for j < len(sortedDescending) && sortedDescending[j].Count == sortedDescending[i].Count {
			j++
		}
		out = append(out, sortedDescending[i:j]...)
		i = j
	}
	return out
}

// Leaderboard builds the announced leaderboard from per-user PR totals.
// rosterOrder fixes the tie-break order (stable sort, roster position wins)
// and names maps user IDs to display names; IDs without a mapping fall back
// to the raw ID. Users absent from counts never appear.
func Leaderboard(counts map[string]int, rosterOrder []string, names map[string]string) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(counts))
	for _, id := range rosterOrder {
		count, ok := counts[id]
		if !ok {
			continue
		}
		name := names[id]
		if name == "" {
			name = id
		}
		entries = append(entries, LeaderboardEntry{Name: name, Count: count})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	return TopWithTies(entries)
}
