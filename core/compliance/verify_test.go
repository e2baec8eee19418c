package compliance

import (
	"reflect"
	"testing"
	"time"
)

func msg(author, content string) Message {
	return Message{AuthorID: author, Content: content, CreatedAt: time.Now()}
}

func TestVerify(t *testing.T) {
	expected := []string{"u1", "u2", "u3"}

	t.Run("missing preserves roster order", func(t *testing.T) {
		res := Verify([]Message{msg("u3", "here"), msg("u1", "present")}, expected)
		if want := []string{"u2"}; !reflect.DeepEqual(res.Missing, want) {
			t.Errorf("Missing = %v, want %v", res.Missing, want)
		}
		if !res.Posted["u1"] || !res.Posted["u3"] || res.Posted["u2"] {
			t.Errorf("Posted = %v", res.Posted)
		}
	})

	t.Run("pr totals accumulate across messages", func(t *testing.T) {
		res := Verify([]Message{
			msg("u1", "https://github.com/a/b/pull/1"),
			msg("u1", "no links here"),
			msg("u1", "https://github.com/a/b/pull/2https://github.com/a/b/pull/3"),
		}, expected)
		if got := res.PRCounts["u1"]; got != 3 {
			t.Errorf("PRCounts[u1] = %v, want 3", got)
		}
	})

	t.Run("strangers are ignored", func(t *testing.T) {
		res := Verify([]Message{msg("lurker", "https://github.com/a/b/pull/1")}, expected)
		if len(res.Posted) != 0 || len(res.PRCounts) != 0 {
			t.Errorf("stranger leaked into result: %+v", res)
		}
		if want := []string{"u1", "u2", "u3"}; !reflect.DeepEqual(res.Missing, want) {
			t.Errorf("Missing = %v, want %v", res.Missing, want)
		}
	})

	t.Run("posting with zero PRs still counts as posted", func(t *testing.T) {
		res := Verify([]Message{msg("u2", "attendance only")}, expected)
		if !res.Posted["u2"] {
			t.Error("u2 should be marked posted")
		}
		if got, ok := res.PRCounts["u2"]; !ok || got != 0 {
			t.Errorf("PRCounts[u2] = %v (ok=%v), want 0 recorded", got, ok)
		}
	})

	t.Run("empty inputs", func(t *testing.T) {
		res := Verify(nil, nil)
		if len(res.Missing) != 0 {
			t.Errorf("Missing = %v, want empty", res.Missing)
		}
	})
}
