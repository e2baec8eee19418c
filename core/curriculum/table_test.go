package curriculum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file falls back to default", func(t *testing.T) {
		table, err := LoadTable(filepath.Join(dir, "nope.json"))
		if err != nil {
			t.Fatalf("LoadTable() error = %v", err)
		}
		if got := table[1][1].Title; got != DefaultTable[1][1].Title {
			t.Errorf("LoadTable() [1][1].Title = %q, want default %q", got, DefaultTable[1][1].Title)
		}
	})

	t.Run("parses week and day keys", func(t *testing.T) {
		path := filepath.Join(dir, "table.json")
		doc := `{"1": {"3": {"title": "Graphs", "description": "BFS", "github_path": "w1/graphs"}}}`
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}

		table, err := LoadTable(path)
		if err != nil {
			t.Fatalf("LoadTable() error = %v", err)
		}
		info, ok := table[1][3]
		if !ok {
			t.Fatal("LoadTable() missing entry for week 1 day 3")
		}
		if info.Title != "Graphs" || info.GithubPath != "w1/graphs" {
			t.Errorf("LoadTable() entry = %+v", info)
		}
	})

	t.Run("rejects bad keys", func(t *testing.T) {
		tests := []struct {
			name string
			doc  string
		}{
			{name: "non-numeric week", doc: `{"one": {"1": {"title": "x"}}}`},
			{name: "day out of range", doc: `{"1": {"7": {"title": "x"}}}`},
			{name: "malformed json", doc: `{`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(dir, "bad.json")
				if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
					t.Fatal(err)
				}
				if _, err := LoadTable(path); err == nil {
					t.Error("LoadTable() expected error")
				}
			})
		}
	})
}
