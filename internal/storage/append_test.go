package storage

import (
	"context"
	"errors"
	"testing"
)

// countingRepo records CopyFrom calls for batching assertions.
type countingRepo struct {
	fakeRepo
	calls   int
	widths  []int
	failOn  int // 1-based call index to fail on; 0 = never
	copyErr error
}

func (c *countingRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	c.calls++
	c.widths = append(c.widths, len(rows))
	if c.failOn != 0 && c.calls == c.failOn {
		return 0, c.copyErr
	}
	return int64(len(rows)), nil
}

func makeRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{i, "x"}
	}
	return rows
}

// TestAppendBatches_Basic verifies rows are grouped into batches and the total
// equals the sum of all successful CopyFrom returns.
func TestAppendBatches_Basic(t *testing.T) {
	t.Parallel()

	repo := &countingRepo{}
	total, err := AppendBatches(context.Background(), repo, []string{"c1", "c2"}, makeRows(7), 3)
	if err != nil {
		t.Fatalf("AppendBatches error: %v", err)
	}
	if total != 7 {
		t.Fatalf("total rows %d, want 7", total)
	}
	if repo.calls != 3 {
		t.Fatalf("CopyFrom calls %d, want 3 (3+3+1)", repo.calls)
	}
	if repo.widths[2] != 1 {
		t.Fatalf("final batch width %d, want 1", repo.widths[2])
	}
}

// TestAppendBatches_ErrorPropagation ensures the first copy error is
// propagated and processing stops after that batch.
func TestAppendBatches_ErrorPropagation(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("copy failed")
	repo := &countingRepo{failOn: 2, copyErr: wantErr}

	total, err := AppendBatches(context.Background(), repo, []string{"c"}, makeRows(5), 2)
	if !errors.Is(err, wantErr) {
		t.Fatalf("want error %v, got %v", wantErr, err)
	}
	if repo.calls != 2 {
		t.Fatalf("CopyFrom calls %d, want 2 (stop after failure)", repo.calls)
	}
	// Total must include rows from the successful first batch only.
	if total != 2 {
		t.Fatalf("total rows %d, want 2", total)
	}
}

// TestAppendBatches_ContextCancel checks the append exits between batches on
// context cancellation.
func TestAppendBatches_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &countingRepo{}
	_, err := AppendBatches(ctx, repo, []string{"c"}, makeRows(4), 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("CopyFrom calls %d, want 0 after pre-cancelled context", repo.calls)
	}
}

func TestAppendBatches_BadArgs(t *testing.T) {
	t.Parallel()

	if _, err := AppendBatches(context.Background(), &fakeRepo{}, nil, nil, 0); err == nil {
		t.Fatal("expected error for batchSize 0")
	}
	if _, err := AppendBatches(context.Background(), nil, nil, nil, 1); err == nil {
		t.Fatal("expected error for nil repo")
	}
}

// TestAppendBatches_Empty verifies a zero-row input performs no writes.
func TestAppendBatches_Empty(t *testing.T) {
	t.Parallel()

	repo := &countingRepo{}
	total, err := AppendBatches(context.Background(), repo, []string{"c"}, nil, 10)
	if err != nil {
		t.Fatalf("AppendBatches error: %v", err)
	}
	if total != 0 || repo.calls != 0 {
		t.Fatalf("total=%d calls=%d, want 0/0", total, repo.calls)
	}
}
