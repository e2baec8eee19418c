package message

import (
	"time"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/compliance"
)

// Message is one archived Discord message. PRCount is computed once at
// archive time so the dashboard can filter/rank without rescanning content.
type Message struct {
	ID         string    `json:"id"` // Discord message snowflake
	ChannelID  string    `json:"channel_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	PRCount    int       `json:"pr_count"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// Compliance converts an archived message to the verifier's input shape.
func (m Message) Compliance() compliance.Message {
	return compliance.Message{AuthorID: m.AuthorID, Content: m.Content, CreatedAt: m.CreatedAt}
}

// ComplianceSlice converts a batch for compliance.Verify.
func ComplianceSlice(msgs []Message) []compliance.Message {
	out := make([]compliance.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Compliance())
	}
	return out
}

type QueryFilter struct {
	ChannelID string    `query:"channel_id"`
	AuthorID  string    `query:"author_id"`
	Search    string    `query:"search"`
	From      time.Time `query:"from"`
	To        time.Time `query:"to"`
	HasPRs    *bool     `query:"has_prs"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.ChannelID == "" && qf.AuthorID == "" && qf.Search == "" &&
		qf.From.IsZero() && qf.To.IsZero() && qf.HasPRs == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
