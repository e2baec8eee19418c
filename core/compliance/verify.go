package compliance

import "time"

type (
	// Message is the slice of a chat message the verifier needs. The caller
	// pre-filters messages to a single channel and a lookback window.
	Message struct {
		AuthorID  string
		Content   string
		CreatedAt time.Time
	}

	// Result reports who posted, who did not, and per-user PR totals.
	Result struct {
		Posted   map[string]bool
		Missing  []string // expected IDs that never posted, in input order
		PRCounts map[string]int
	}
)

// Verify reduces a message list against the expected roster. A user counts as
// posted on their first message; their PR total accumulates across all their
// messages. Messages from authors outside the roster are ignored.
func Verify(messages []Message, expectedUserIDs []string) Result {
	expected := make(map[string]bool, len(expectedUserIDs))
	for _, id := range expectedUserIDs {
		expected[id] = true
	}

	res := Result{
		Posted:   make(map[string]bool),
		PRCounts: make(map[string]int),
	}
	for _, msg := range messages {
		if !expected[msg.AuthorID] {
			continue
		}
		res.Posted[msg.AuthorID] = true
		res.PRCounts[msg.AuthorID] += CountPRLinks(msg.Content)
	}

	res.Missing = make([]string, 0)
	for _, id := range expectedUserIDs {
		if !res.Posted[id] {
			res.Missing = append(res.Missing, id)
		}
	}
	return res
}
