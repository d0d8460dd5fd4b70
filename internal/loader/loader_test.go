package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"csvload/internal/config"
	"csvload/internal/storage"
)

// stubRepo records everything written through it. A single instance can be
// shared across runs to observe additive behavior.
type stubRepo struct {
	columns []string
	rows    [][]any
	copies  int
	pingErr error
	copyErr error
}

func (s *stubRepo) Ping(ctx context.Context) error { return s.pingErr }
func (s *stubRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	s.copies++
	if s.copyErr != nil {
		return 0, s.copyErr
	}
	s.columns = columns
	s.rows = append(s.rows, rows...)
	return int64(len(rows)), nil
}
func (s *stubRepo) Exec(ctx context.Context, sql string) error { return nil }
func (s *stubRepo) Close()                                     {}

// hookRepo swaps the repository factory for the duration of the test and
// counts how many times a connection was requested.
func hookRepo(t *testing.T, repo storage.Repository, err error) *int {
	t.Helper()
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	attempts := new(int)
	newRepository = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		*attempts++
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return attempts
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func testConfig(path string) config.Config {
	return config.Config{
		Job: "test",
		Source: config.Source{
			Path:      path,
			HasHeader: true,
			TrimSpace: true,
		},
		Storage: config.Storage{
			Kind:  "stub",
			DSN:   "stub://",
			Table: "people",
		},
	}
}

func TestRun_AppendsAllRows(t *testing.T) {
	repo := &stubRepo{}
	hookRepo(t, repo, nil)

	path := writeCSV(t, "id,name\n1,Alice\n2,Bob\n3,Carol\n")
	var out strings.Builder

	res, err := Run(context.Background(), testConfig(path), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RowsParsed != 3 || res.RowsWritten != 3 || res.RowsSkipped != 0 {
		t.Fatalf("result=%+v, want 3 parsed / 3 written / 0 skipped", res)
	}

	// Column order and names match the source header exactly.
	if !reflect.DeepEqual(repo.columns, []string{"id", "name"}) {
		t.Fatalf("columns=%v, want [id name]", repo.columns)
	}
	want := [][]any{{"1", "Alice"}, {"2", "Bob"}, {"3", "Carol"}}
	if !reflect.DeepEqual(repo.rows, want) {
		t.Fatalf("rows=%v, want %v", repo.rows, want)
	}

	if res.Fingerprint == "" {
		t.Fatal("result fingerprint is empty")
	}
	if !strings.Contains(out.String(), "Loaded 3 rows x 2 columns") {
		t.Fatalf("preview missing summary:\n%s", out.String())
	}
}

// TestRun_MissingFile is the precondition path: failure before any side
// effect, and no connection is ever attempted.
func TestRun_MissingFile(t *testing.T) {
	attempts := hookRepo(t, &stubRepo{}, nil)

	cfg := testConfig(filepath.Join(t.TempDir(), "absent.csv"))
	var out strings.Builder

	res, err := Run(context.Background(), cfg, &out)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrFileMissing) {
		t.Fatalf("want ErrFileMissing, got %v", err)
	}
	if StageOf(err) != StageFileMissing {
		t.Fatalf("stage=%q, want %q", StageOf(err), StageFileMissing)
	}
	if !strings.Contains(err.Error(), cfg.Source.Path) {
		t.Fatalf("error %q does not name the offending path", err)
	}
	if *attempts != 0 {
		t.Fatalf("connection attempts=%d, want 0", *attempts)
	}
	if res.RowsWritten != 0 {
		t.Fatalf("rows written=%d, want 0", res.RowsWritten)
	}
}

// TestRun_TwiceDoublesRows pins down the documented non-idempotence: the same
// file loaded twice appends its rows twice.
func TestRun_TwiceDoublesRows(t *testing.T) {
	repo := &stubRepo{}
	hookRepo(t, repo, nil)

	path := writeCSV(t, "id,name\n1,Alice\n2,Bob\n3,Carol\n")
	cfg := testConfig(path)
	var out strings.Builder

	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), cfg, &out); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	if len(repo.rows) != 6 {
		t.Fatalf("rows after two runs=%d, want 6", len(repo.rows))
	}
}

func TestRun_ParseFailure(t *testing.T) {
	attempts := hookRepo(t, &stubRepo{}, nil)

	// An empty file has no header row to read.
	path := writeCSV(t, "")
	var out strings.Builder

	_, err := Run(context.Background(), testConfig(path), &out)
	if StageOf(err) != StageParse {
		t.Fatalf("stage=%q (err=%v), want %q", StageOf(err), err, StageParse)
	}
	if *attempts != 0 {
		t.Fatalf("connection attempts=%d, want 0 after parse failure", *attempts)
	}
}

func TestRun_ConnectFailure(t *testing.T) {
	wantErr := errors.New("connection refused")
	hookRepo(t, nil, wantErr)

	path := writeCSV(t, "id,name\n1,Alice\n")
	var out strings.Builder

	_, err := Run(context.Background(), testConfig(path), &out)
	if StageOf(err) != StageConnect {
		t.Fatalf("stage=%q, want %q", StageOf(err), StageConnect)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("underlying error lost: %v", err)
	}
}

func TestRun_PingFailure(t *testing.T) {
	repo := &stubRepo{pingErr: errors.New("server gone")}
	hookRepo(t, repo, nil)

	path := writeCSV(t, "id,name\n1,Alice\n")
	var out strings.Builder

	_, err := Run(context.Background(), testConfig(path), &out)
	if StageOf(err) != StageConnect {
		t.Fatalf("stage=%q, want %q", StageOf(err), StageConnect)
	}
	if repo.copies != 0 {
		t.Fatalf("writes=%d, want 0 after failed ping", repo.copies)
	}
}

func TestRun_WriteFailure(t *testing.T) {
	wantErr := errors.New("column mismatch")
	repo := &stubRepo{copyErr: wantErr}
	hookRepo(t, repo, nil)

	path := writeCSV(t, "id,name\n1,Alice\n")
	var out strings.Builder

	res, err := Run(context.Background(), testConfig(path), &out)
	if StageOf(err) != StageWrite {
		t.Fatalf("stage=%q, want %q", StageOf(err), StageWrite)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("underlying error lost: %v", err)
	}
	if res.RowsWritten != 0 {
		t.Fatalf("rows written=%d, want 0", res.RowsWritten)
	}
}
