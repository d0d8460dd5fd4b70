// Package csv parses a delimited text file into a recordset.RecordSet. The
// parser reads the whole input in one pass, derives column names from the
// header row, and soft-skips rows whose width does not match the header
// (counted and logged, never fatal).
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"csvload/internal/recordset"
)

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	// Without a header, columns are synthesized as col_0..col_N-1.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// NormalizeHeaders rewrites header names to snake_case ASCII (lowercase,
	// spaces to underscores, diacritics folded). When false, source headers
	// are preserved verbatim so the destination table's columns can match
	// the file exactly.
	NormalizeHeaders bool

	// HeaderMap maps source header names to canonical keys. Applied before
	// NormalizeHeaders; a mapped name is used as-is.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// skippedLogLimit caps per-row skip logging so a badly mangled file cannot
// flood the diagnostics.
const skippedLogLimit = 400

// Parse consumes CSV records from r and returns the parsed record set along
// with the number of rows that were skipped due to parse errors or
// field-count mismatches.
func (p *Parser) Parse(r io.Reader) (*recordset.RecordSet, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = p.opt.TrimSpace

	var headers []string
	var rows [][]any
	var skipped int

	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = p.headerNames(h)
	}

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < skippedLogLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}

		if headers == nil {
			headers = synthesizeHeaders(len(row))
		}
		if len(row) != len(headers) {
			if skipped < skippedLogLimit {
				log.Printf("csv: skipping row %d: incorrect number of fields (expected %d, got %d)",
					line, len(headers), len(row))
			}
			skipped++
			continue
		}

		vals := make([]any, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			vals[i] = emptyToNil(val)
		}
		rows = append(rows, vals)
	}

	if headers == nil {
		// Empty input: no header, no rows.
		headers = []string{}
	}
	rs, err := recordset.New(headers, rows)
	if err != nil {
		return nil, skipped, err
	}
	return rs, skipped, nil
}

// headerNames produces the column names for the header row h, applying BOM
// stripping, HeaderMap overrides, and optional normalization.
func (p *Parser) headerNames(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if p.opt.HeaderMap != nil {
			if m, ok := p.opt.HeaderMap[c]; ok && m != "" {
				res[i] = m
				continue
			}
		}
		if p.opt.NormalizeHeaders {
			c = NormalizeFieldName(c)
		}
		res[i] = c
	}
	return res
}

// synthesizeHeaders returns col_0..col_{n-1} for headerless input.
func synthesizeHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = fmt.Sprintf("col_%d", i)
	}
	return headers
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
