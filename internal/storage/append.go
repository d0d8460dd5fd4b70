// This file implements the batched append used by the loader: it walks the
// in-memory rows sequentially, flushing fixed-size batches through the
// repository's CopyFrom. On every successful flush a concise progress line is
// emitted with running totals and instantaneous rows/sec since the previous
// flush.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultBatchSize is used when the caller passes batchSize <= 0 to
// AppendBatches via config defaulting.
const DefaultBatchSize = 500

// AppendBatches appends rows into repo in batches of batchSize, preserving
// row order across flushes. It returns the total number of rows the backend
// reported as inserted and the first error encountered; on error the rows of
// earlier, already-committed batches remain in the table (per-batch atomicity
// is the backend's).
func AppendBatches(
	ctx context.Context,
	repo Repository,
	columns []string,
	rows [][]any,
	batchSize int,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if repo == nil {
		return 0, fmt.Errorf("repo must not be nil")
	}

	var (
		total       int64
		batches     int64
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	for off := 0; off < len(rows); off += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := repo.CopyFrom(ctx, columns, rows[off:end])
		total += n
		if err != nil {
			log.Printf("append: copy failed after=%d total=%d err=%v", n, total, err)
			return total, err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			batches,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total
	}

	return total, nil
}
