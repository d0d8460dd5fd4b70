// Package probe renders a human-readable preview of a parsed record set:
// row/column counts, the leading rows, the column list, and any columns with
// missing values. The preview is purely observational; nothing downstream
// depends on it.
//
// The package also computes a content fingerprint of the source file so a
// run report can identify which file produced it. The fingerprint is
// deliberately not used for deduplication: loading stays strictly additive.
package probe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/xxh3"

	"csvload/internal/recordset"
)

// DefaultHeadRows is how many leading rows Preview prints.
const DefaultHeadRows = 3

// Preview writes the standard preview of rs to w. n caps the number of
// leading rows shown; n <= 0 uses DefaultHeadRows.
func Preview(w io.Writer, rs *recordset.RecordSet, n int) {
	if n <= 0 {
		n = DefaultHeadRows
	}

	fmt.Fprintf(w, "Loaded %d rows x %d columns\n", rs.NumRows(), rs.NumCols())

	head := rs.Head(n)
	if len(head) > 0 {
		fmt.Fprintf(w, "\nData preview (first %d rows):\n", len(head))
		fmt.Fprintf(w, "  %s\n", strings.Join(rs.Columns, " | "))
		for _, row := range head {
			fmt.Fprintf(w, "  %s\n", formatRow(row))
		}
	}

	fmt.Fprintf(w, "\nColumns: [%s]\n", strings.Join(rs.Columns, ", "))

	if missing := rs.MissingCounts(); len(missing) > 0 {
		fmt.Fprintf(w, "\nMissing values:\n")
		for _, m := range missing {
			fmt.Fprintf(w, "  %s: %d\n", m.Column, m.Count)
		}
	}
}

// Fingerprint returns the xxh3-128 hash of the file at path as a hex string.
// The whole file is streamed; nothing is held in memory beyond a fixed buffer.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := h.Sum128().Bytes()
	return fmt.Sprintf("%x", sum), nil
}

// formatRow renders a single row for the preview, showing nil as <nil>.
func formatRow(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " | ")
}
