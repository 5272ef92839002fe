package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fortuna/courtside/internal/stats"
)

// TableName labels tables loaded from the historical export.
const TableName = "season_stats_csv"

// Load reads a historical season stats CSV export. The first record is the
// header; cells stay as text and are typed by the stats table adapter.
func Load(r io.Reader) (stats.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return stats.Table{}, &stats.SchemaError{Table: TableName, Column: "*", Row: -1, Reason: "empty file"}
	}
	if err != nil {
		return stats.Table{}, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	// Exports written with an index column carry an unnamed first header.
	if len(header) > 0 && header[0] == "" {
		header[0] = "#"
	}

	table := stats.Table{Name: TableName, Headers: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats.Table{}, fmt.Errorf("reading row %d: %w", table.Len(), err)
		}
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// LoadFile opens and reads a CSV export from disk.
func LoadFile(path string) (stats.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return stats.Table{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}
