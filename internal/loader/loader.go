// Package loader implements the load procedure itself: check that the input
// file exists, parse it into a record set, print a preview, open the
// configured database backend, verify the connection, and append every row
// into the target table.
//
// The flow is a single synchronous sequence with one decision point (file
// exists / does not). Appending is strictly additive; running the same file
// twice duplicates its rows, and the run report carries a content fingerprint
// so operators can spot that, but nothing here dedupes.
package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"csvload/internal/config"
	"csvload/internal/metrics"
	pcsv "csvload/internal/parser/csv"
	"csvload/internal/probe"
	"csvload/internal/recordset"
	"csvload/internal/storage"
)

// newRepository is a test hook that points to storage.New by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = storage.New

// Result summarizes a successful (or partially progressed) run.
type Result struct {
	Path        string
	Table       string
	Fingerprint string
	RowsParsed  int
	RowsSkipped int
	RowsWritten int64
	Elapsed     time.Duration
}

// Run executes the load described by cfg. The human-readable preview and
// report are written to w (os.Stdout when nil); diagnostics go to the
// standard logger. On failure the returned error is a *Error tagging the
// failed stage, and the Result reflects however far the run got.
func Run(ctx context.Context, cfg config.Config, w io.Writer) (Result, error) {
	if w == nil {
		w = os.Stdout
	}
	start := time.Now()
	job := cfg.Job
	if job == "" {
		job = "csvload"
	}
	res := Result{Path: cfg.Source.Path, Table: cfg.Storage.Table}

	// Precondition: the file must exist. Checked before any side effect so a
	// bad path never opens a connection.
	if _, err := os.Stat(cfg.Source.Path); err != nil {
		res.Elapsed = time.Since(start)
		return res, stageErr(StageFileMissing, fmt.Errorf("%w: %s", ErrFileMissing, cfg.Source.Path))
	}

	// Step 1: parse the file into a record set.
	stepStart := time.Now()
	rs, skipped, err := parseFile(cfg.Source)
	metrics.RecordStep(job, "parse", err, time.Since(stepStart))
	if err != nil {
		res.Elapsed = time.Since(start)
		return res, stageErr(StageParse, err)
	}
	res.RowsParsed = rs.NumRows()
	res.RowsSkipped = skipped
	metrics.RecordRows(job, "parsed", int64(rs.NumRows()))
	metrics.RecordRows(job, "skipped", int64(skipped))

	if fp, err := probe.Fingerprint(cfg.Source.Path); err != nil {
		log.Printf("fingerprint: %v", err)
	} else {
		res.Fingerprint = fp
	}

	// Step 2: preview. Purely observational.
	fmt.Fprintf(w, "Reading %s\n", cfg.Source.Path)
	probe.Preview(w, rs, probe.DefaultHeadRows)
	if skipped > 0 {
		fmt.Fprintf(w, "\nSkipped %d malformed rows\n", skipped)
	}
	if res.Fingerprint != "" {
		fmt.Fprintf(w, "\nFile fingerprint: %s\n", res.Fingerprint)
	}

	// Step 3: acquire the connection. Exclusively owned, closed after the run.
	fmt.Fprintf(w, "\nConnecting to %s...\n", cfg.Storage.Kind)
	stepStart = time.Now()
	repo, err := newRepository(ctx, storage.Config{
		Kind:  cfg.Storage.Kind,
		DSN:   cfg.Storage.DSN,
		Table: cfg.Storage.Table,
	})
	if err != nil {
		metrics.RecordStep(job, "connect", err, time.Since(stepStart))
		res.Elapsed = time.Since(start)
		return res, stageErr(StageConnect, err)
	}
	defer repo.Close()

	// Step 4: verify the connection is live before writing anything.
	err = repo.Ping(ctx)
	metrics.RecordStep(job, "connect", err, time.Since(stepStart))
	if err != nil {
		res.Elapsed = time.Since(start)
		return res, stageErr(StageConnect, err)
	}
	fmt.Fprintf(w, "Connected\n")

	// Step 5: append every row, preserving column order. Additive only.
	batchSize := cfg.Storage.BatchSize
	if batchSize <= 0 {
		batchSize = storage.DefaultBatchSize
	}
	stepStart = time.Now()
	written, err := storage.AppendBatches(ctx, repo, rs.Columns, rs.Rows, batchSize)
	metrics.RecordStep(job, "write", err, time.Since(stepStart))
	res.RowsWritten = written
	metrics.RecordRows(job, "written", written)
	if err != nil {
		res.Elapsed = time.Since(start)
		return res, stageErr(StageWrite, err)
	}

	// Step 6: report.
	res.Elapsed = time.Since(start)
	fmt.Fprintf(w, "\nAppended %d rows to %s in %s\n",
		res.RowsWritten, res.Table, res.Elapsed.Truncate(time.Millisecond))
	return res, nil
}

// parseFile opens and parses the configured source file.
func parseFile(src config.Source) (*recordset.RecordSet, int, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	p := pcsv.NewParser(pcsv.Options{
		HasHeader:        src.HasHeader,
		Comma:            src.DelimiterRune(),
		TrimSpace:        src.TrimSpace,
		NormalizeHeaders: src.NormalizeHeaders,
		HeaderMap:        src.HeaderMap,
	})
	return p.Parse(f)
}
