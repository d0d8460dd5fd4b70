package csv_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	pcsv "csvload/internal/parser/csv"
)

func TestParseSample(t *testing.T) {
	path := filepath.Join("..", "..", "..", "testdata", "customers_sample.csv")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	p := pcsv.NewParser(pcsv.Options{
		HasHeader: true,
		Comma:     ',',
		TrimSpace: true,
	})

	rs, skipped, err := p.Parse(f)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped=%d, want 0", skipped)
	}
	if got, want := rs.NumRows(), 6; got != want {
		t.Fatalf("rows=%d want=%d", got, want)
	}
	if got, want := rs.NumCols(), 7; got != want {
		t.Fatalf("cols=%d want=%d", got, want)
	}
	// Headers preserved verbatim by default.
	if rs.Columns[0] != "customerID" {
		t.Fatalf("first column=%q, want customerID", rs.Columns[0])
	}
	if v := rs.Rows[0][0]; v != "7590-VHVEG" {
		t.Fatalf("first value=%v, want 7590-VHVEG", v)
	}
	// The empty TotalCharges cell becomes nil.
	idx := rs.ColumnIndex("TotalCharges")
	if idx < 0 {
		t.Fatalf("TotalCharges column missing: %v", rs.Columns)
	}
	if v := rs.Rows[5][idx]; v != nil {
		t.Fatalf("empty cell=%v, want nil", v)
	}
}

func TestParse_BOMStripped(t *testing.T) {
	t.Parallel()

	in := "\uFEFFid,name\n1,Alice\n"
	p := pcsv.NewParser(pcsv.Options{HasHeader: true})
	rs, _, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rs.Columns[0] != "id" {
		t.Fatalf("first column=%q, want id (BOM stripped)", rs.Columns[0])
	}
}

func TestParse_HeaderMapAndNormalize(t *testing.T) {
	t.Parallel()

	in := "PČV,Datum od,RM Název\n10,2024-01-01,x\n"
	p := pcsv.NewParser(pcsv.Options{
		HasHeader:        true,
		NormalizeHeaders: true,
		HeaderMap:        map[string]string{"PČV": "pcv"},
	})
	rs, _, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"pcv", "datum_od", "rm_nazev"}
	for i, w := range want {
		if rs.Columns[i] != w {
			t.Fatalf("column %d=%q, want %q (all: %v)", i, rs.Columns[i], w, rs.Columns)
		}
	}
	if v := rs.Rows[0][0]; v != "10" {
		t.Fatalf("pcv=%v want 10", v)
	}
}

// TestParse_SkipsWrongWidthRows checks soft-fail semantics: misaligned rows
// are counted, not fatal.
func TestParse_SkipsWrongWidthRows(t *testing.T) {
	t.Parallel()

	in := "a,b\n1,2\n1,2,3\n4,5\n"
	p := pcsv.NewParser(pcsv.Options{HasHeader: true})
	rs, skipped, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped=%d, want 1", skipped)
	}
	if rs.NumRows() != 2 {
		t.Fatalf("rows=%d, want 2", rs.NumRows())
	}
}

func TestParse_NoHeader(t *testing.T) {
	t.Parallel()

	in := "1,Alice\n2,Bob\n"
	p := pcsv.NewParser(pcsv.Options{})
	rs, _, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rs.Columns[0] != "col_0" || rs.Columns[1] != "col_1" {
		t.Fatalf("columns=%v, want synthesized col_0,col_1", rs.Columns)
	}
	if rs.NumRows() != 2 {
		t.Fatalf("rows=%d, want 2", rs.NumRows())
	}
}

func TestParse_Semicolon(t *testing.T) {
	t.Parallel()

	in := "id;name\n1;Alice\n"
	p := pcsv.NewParser(pcsv.Options{HasHeader: true, Comma: ';'})
	rs, _, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rs.NumCols() != 2 || rs.Rows[0][1] != "Alice" {
		t.Fatalf("unexpected parse result: cols=%v rows=%v", rs.Columns, rs.Rows)
	}
}
