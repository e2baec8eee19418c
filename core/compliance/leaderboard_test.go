package compliance

import (
	"reflect"
	"testing"
)

func entries(pairs ...interface{}) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, LeaderboardEntry{Name: pairs[i].(string), Count: pairs[i+1].(int)})
	}
	return out
}

func TestTopWithTies(t *testing.T) {
	tests := []struct {
		name   string
		sorted []LeaderboardEntry
		want   []LeaderboardEntry
	}{
		{name: "empty", sorted: entries(), want: entries()},
		{name: "single entry", sorted: entries("A", 5), want: entries("A", 5)},
		{
			name:   "exactly three, no ties",
			sorted: entries("A", 5, "B", 4, "C", 3),
			want:   entries("A", 5, "B", 4, "C", 3),
		},
		{
			name:   "four distinct stops at three",
			sorted: entries("A", 5, "B", 4, "C", 3, "D", 2),
			want:   entries("A", 5, "B", 4, "C", 3),
		},
		{
			name:   "four-way tie for first all returned",
			sorted: entries("A", 5, "B", 5, "C", 5, "D", 5, "E", 4),
			want:   entries("A", 5, "B", 5, "C", 5, "D", 5),
		},
		{
			name:   "second-place tie group not split",
			sorted: entries("A", 5, "B", 4, "C", 4, "D", 4, "E", 3),
			want:   entries("A", 5, "B", 4, "C", 4, "D", 4),
		},
		{
			name:   "seven-way first group shadows the rest",
			sorted: entries("A", 2, "B", 2, "C", 2, "D", 2, "E", 2, "F", 2, "G", 2, "H", 1),
			want:   entries("A", 2, "B", 2, "C", 2, "D", 2, "E", 2, "F", 2, "G", 2),
		},
		{
			name:   "threshold crossed mid-list keeps whole crossing group",
			sorted: entries("A", 5, "B", 5, "C", 4, "D", 4, "E", 1),
			want:   entries("A", 5, "B", 5, "C", 4, "D", 4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopWithTies(tt.sorted)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopWithTies() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A tie group either appears whole or not at all.
func TestTopWithTiesNeverSplitsGroups(t *testing.T) {
	sorted := entries("A", 9, "B", 7, "C", 7, "D", 7, "E", 7, "F", 2, "G", 2, "H", 1)
	got := TopWithTies(sorted)

	included := make(map[string]bool, len(got))
	for _, e := range got {
		included[e.Name] = true
	}
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].Count == sorted[i+1].Count &&
			included[sorted[i].Name] != included[sorted[i+1].Name] {
			t.Errorf("tie group split between %q and %q", sorted[i].Name, sorted[i+1].Name)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	roster := []string{"u1", "u2", "u3", "u4"}
	names := map[string]string{"u1": "Ada", "u2": "Grace", "u3": "Edsger"}

	counts := map[string]int{"u1": 2, "u2": 5, "u3": 2, "u4": 3}
	got := Leaderboard(counts, roster, names)

	// ties resolve in roster order; u4 falls back to its raw ID; the tied
	// group crossing the threshold comes along whole
	want := entries("Grace", 5, "u4", 3, "Ada", 2, "Edsger", 2)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Leaderboard() = %v, want %v", got, want)
	}

	// users with no recorded count never appear
	got = Leaderboard(map[string]int{"u2": 1}, roster, names)
	want = entries("Grace", 1)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Leaderboard() = %v, want %v", got, want)
	}
}
