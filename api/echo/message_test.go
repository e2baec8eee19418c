package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fractal-nyc/attendabot/core/message"
	"github.com/fractal-nyc/attendabot/core/user"
)

func Test_messageApi(t *testing.T) {
	env := setupEnv(t, nil)
	ctx := context.Background()

	instructor := createUser(t, env.userRepo, "Yacin", "yacin1", "yacin@fractal.nyc", []string{user.RoleInstructor})
	student := createUser(t, env.userRepo, "Ada", "adalove", "ada@fractal.nyc", user.StudentRoles)
	token := getToken(t, instructor)

	err := env.messages.Archive(ctx, []message.Message{
		{
			ID:        "900000000000000001",
			ChannelID: "100000000000000002",
			AuthorID:  "100000000000000011",
			Content:   "done: https://github.com/fractal-nyc/hb/pull/7",
			CreatedAt: time.Date(2025, 1, 8, 22, 0, 0, 0, time.UTC),
		},
		{
			ID:        "900000000000000002",
			ChannelID: "100000000000000002",
			AuthorID:  "100000000000000012",
			Content:   "wrote tests all day",
			CreatedAt: time.Date(2025, 1, 8, 22, 30, 0, 0, time.UTC),
		},
		{
			ID:        "900000000000000003",
			ChannelID: "100000000000000001",
			AuthorID:  "100000000000000011",
			Content:   "here",
			CreatedAt: time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("archiving messages: %v", err)
	}

	t.Run("query by channel", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages?channel_id=100000000000000002", token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var msgs []message.Message
		if jsonUnmarshal(t, rec.Body.Bytes(), &msgs) && len(msgs) != 2 {
			t.Errorf("got %d messages, want 2", len(msgs))
		}
	})

	t.Run("query with PR filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages?channel_id=100000000000000002&has_prs=true", token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var msgs []message.Message
		if !jsonUnmarshal(t, rec.Body.Bytes(), &msgs) {
			t.FailNow()
		}
		if len(msgs) != 1 || msgs[0].ID != "900000000000000001" {
			t.Errorf("messages = %+v, want only the PR message", msgs)
		}
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages/900000000000000003", token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var msg message.Message
		if jsonUnmarshal(t, rec.Body.Bytes(), &msg) && msg.Content != "here" {
			t.Errorf("Content = %q, want %q", msg.Content, "here")
		}
	})

	t.Run("retrieve unknown is a 404", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages/nope", token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("students are forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages", getToken(t, student))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})
}
