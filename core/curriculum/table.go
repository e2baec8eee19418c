package curriculum

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// DefaultTable covers the opening weeks of the standard syllabus. It is used
// when no curriculum file is configured or the configured file is absent.
var DefaultTable = Table{
	1: {
		1: {Title: "Orientation", Description: "Environment setup and first commit.", GithubPath: "week1/orientation"},
		2: {Title: "Arrays & Strings", Description: "Core array and string drills.", GithubPath: "week1/arrays-strings"},
		3: {Title: "Hash Maps", Description: "Frequency counting and lookups.", GithubPath: "week1/hash-maps"},
		4: {Title: "Two Pointers", Description: "Pointer traversal patterns.", GithubPath: "week1/two-pointers"},
		5: {Title: "Sliding Window", Description: "Windowed subarray problems.", GithubPath: "week1/sliding-window"},
	},
	2: {
		1: {Title: "Linked Lists", Description: "Singly and doubly linked lists.", GithubPath: "week2/linked-lists"},
		2: {Title: "Stacks & Queues", Description: "LIFO and FIFO structures.", GithubPath: "week2/stacks-queues"},
		3: {Title: "Recursion", Description: "Recursive problem decomposition.", GithubPath: "week2/recursion"},
		4: {Title: "Binary Search", Description: "Search on sorted data.", GithubPath: "week2/binary-search"},
		5: {Title: "Sorting", Description: "Comparison sorts and their costs.", GithubPath: "week2/sorting"},
	},
	3: {
		1: {Title: "Trees", Description: "Binary tree traversals.", GithubPath: "week3/trees"},
		2: {Title: "Binary Search Trees", Description: "Ordered tree operations.", GithubPath: "week3/bsts"},
		3: {Title: "Heaps", Description: "Priority queues and heapify.", GithubPath: "week3/heaps"},
		4: {Title: "Graphs", Description: "Adjacency lists, BFS and DFS.", GithubPath: "week3/graphs"},
		5: {Title: "Graph Algorithms", Description: "Shortest paths and topological sort.", GithubPath: "week3/graph-algorithms"},
	},
}

// LoadTable reads a curriculum table from a JSON file keyed by week then day
// ("1": {"3": {...}}). A missing file is not an error: the built-in default
// table is returned so a fresh deployment works without any curriculum file.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTable, nil
		}
		return nil, errors.Wrapf(err, "reading curriculum file %s", path)
	}

	var doc map[string]map[string]AssignmentInfo
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing curriculum file %s", path)
	}

	table := make(Table, len(doc))
	for weekKey, days := range doc {
		week, err := strconv.Atoi(weekKey)
		if err != nil || week < 1 {
			return nil, errors.Errorf("invalid week key %q in %s", weekKey, path)
		}
		table[week] = make(map[int]AssignmentInfo, len(days))
		for dayKey, info := range days {
			day, err := strconv.Atoi(dayKey)
			if err != nil || day < 1 || day > 6 {
				return nil, errors.Errorf("invalid day key %q in week %q of %s", dayKey, weekKey, path)
			}
			table[week][day] = info
		}
	}
	return table, nil
}
