// Package querytool holds offline helpers for preparing query corpora.
package querytool

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// DedupeFirstColumn copies a query CSV keeping the header and only the first
// occurrence of each value in the first column. Row order is preserved.
func DedupeFirstColumn(inPath, outPath string) (kept, dropped int, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, 0, fmt.Errorf("open queries: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, 0, fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	writer := csv.NewWriter(out)

	header, err := reader.Read()
	if err == io.EOF {
		writer.Flush()
		return 0, 0, writer.Error()
	}
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	if err := writer.Write(header); err != nil {
		return 0, 0, fmt.Errorf("write header: %w", err)
	}

	seen := make(map[string]struct{})
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return kept, dropped, fmt.Errorf("read row: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if _, ok := seen[row[0]]; ok {
			dropped++
			continue
		}
		seen[row[0]] = struct{}{}
		if err := writer.Write(row); err != nil {
			return kept, dropped, fmt.Errorf("write row: %w", err)
		}
		kept++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return kept, dropped, fmt.Errorf("flush output: %w", err)
	}
	return kept, dropped, nil
}
