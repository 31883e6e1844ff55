package querytool

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// SortByInsertTime reads a JSON array of query objects, orders it by the
// numeric insertTime field ascending, strips the decomposedQueries field,
// and writes the result back indented. Entries without a parseable
// insertTime sort first.
func SortByInsertTime(inPath, outPath string) (int, error) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("read queries: %w", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, fmt.Errorf("parse queries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return insertTime(entries[i]) < insertTime(entries[j])
	})
	for _, entry := range entries {
		delete(entry, "decomposedQueries")
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode queries: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return 0, fmt.Errorf("write output: %w", err)
	}
	return len(entries), nil
}

func insertTime(entry map[string]any) float64 {
	v, ok := entry["insertTime"].(float64)
	if !ok {
		return 0
	}
	return v
}
