// Package csvio owns the flat-file interfaces of the harness: the query
// input file and the delimited output reports.
package csvio

import (
	"fmt"
	"os"
	"strings"

	"SearchAudit/internal/ports"
)

// QueryFile reads one query per line, tolerating a UTF-8 BOM and skipping
// blank lines. Queries are trimmed and immutable afterwards.
type QueryFile struct {
	Path string
}

var _ ports.QuerySource = QueryFile{}

// Queries loads the full corpus. A missing input file is the one fatal error
// class of the harness and is surfaced to the caller.
func (f QueryFile) Queries() ([]string, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read query file %s: %w", f.Path, err)
	}

	text := strings.TrimPrefix(string(raw), "\ufeff")

	var queries []string
	for _, line := range strings.Split(text, "\n") {
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		queries = append(queries, query)
	}

	return queries, nil
}
