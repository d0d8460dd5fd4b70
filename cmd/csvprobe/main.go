// Command csvprobe prints the loader's preview for a CSV file without
// touching any database: row/column counts, the first rows, the column list,
// columns with missing values, and the content fingerprint. Useful for
// checking a file against the destination table before running a load.
package main

import (
	"flag"
	"fmt"
	"os"

	pcsv "csvload/internal/parser/csv"
	"csvload/internal/probe"
)

func main() {
	var (
		path      string
		delim     string
		noHeader  bool
		trim      bool
		normalize bool
		headRows  int
	)

	flag.StringVar(&path, "csv", "", "input CSV path (required)")
	flag.StringVar(&delim, "delimiter", ",", "field delimiter (first rune used)")
	flag.BoolVar(&noHeader, "no-header", false, "treat the first row as data, not headers")
	flag.BoolVar(&trim, "trim", true, "trim surrounding spaces from values")
	flag.BoolVar(&normalize, "normalize", false, "fold header names to snake_case ASCII")
	flag.IntVar(&headRows, "head", probe.DefaultHeadRows, "number of leading rows to print")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: csvprobe -csv <path> [-delimiter ,] [-no-header] [-head 3]")
		os.Exit(2)
	}

	f, err := os.Open(path)
	if err != nil {
		fatalf("open: %v", err)
	}
	defer f.Close()

	comma := ','
	if delim != "" {
		comma = []rune(delim)[0]
	}
	p := pcsv.NewParser(pcsv.Options{
		HasHeader:        !noHeader,
		Comma:            comma,
		TrimSpace:        trim,
		NormalizeHeaders: normalize,
	})
	rs, skipped, err := p.Parse(f)
	if err != nil {
		fatalf("parse: %v", err)
	}

	fmt.Printf("Probing %s\n", path)
	probe.Preview(os.Stdout, rs, headRows)
	if skipped > 0 {
		fmt.Printf("\nSkipped %d malformed rows\n", skipped)
	}
	if fp, err := probe.Fingerprint(path); err == nil {
		fmt.Printf("\nFile fingerprint: %s\n", fp)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
