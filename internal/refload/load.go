// Package refload bootstraps the reference catalog from a government
// rate Parquet dataset: stage via COPY, then upsert into ref tables.
package refload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/db"
	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
	"github.com/gyeh/billaudit/internal/parquetread"
	embedsql "github.com/gyeh/billaudit/internal/sql"
)

const readBatchSize = 1024

// LoadError wraps an error with the load phase where it occurred.
type LoadError struct {
	Phase string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options controls one reference load run.
type Options struct {
	FilePath    string
	KeepStaging bool
}

// Run executes the full reference load: validate → stage → upsert →
// cleanup. Staging is batch-scoped, so concurrent loads never collide.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, opts Options) (*model.LoadSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()

	sha, err := normalize.FileHash(opts.FilePath)
	if err != nil {
		return nil, &LoadError{Phase: "validate", Err: err}
	}

	log.Info().
		Str("file", opts.FilePath).
		Str("sha256", sha).
		Str("ingest_batch_id", batchID.String()).
		Msg("starting reference load")

	stageResult, err := stage(ctx, pool, log, opts.FilePath, batchID)
	if err != nil {
		// Best effort: leave no orphaned staging rows behind.
		_ = deleteStagingBatch(ctx, pool, batchID)
		return nil, &LoadError{Phase: "stage", Err: err}
	}

	transformStart := time.Now()
	procedures, hospitals, err := upsertReference(ctx, pool, log, batchID)
	if err != nil {
		_ = deleteStagingBatch(ctx, pool, batchID)
		return nil, &LoadError{Phase: "transform", Err: err}
	}
	transformDur := time.Since(transformStart)

	if !opts.KeepStaging {
		if err := deleteStagingBatch(ctx, pool, batchID); err != nil {
			log.Warn().Err(err).Msg("staging cleanup failed (non-fatal)")
		}
	}

	summary := &model.LoadSummary{
		FilePath:          opts.FilePath,
		FileSHA256:        sha,
		IngestBatchID:     batchID.String(),
		RowsRead:          stageResult.rowsRead,
		RowsStaged:        stageResult.rowsStaged,
		RowsRejected:      stageResult.rowsRejected,
		ProceduresWritten: procedures,
		HospitalsWritten:  hospitals,
		DurationStage:     stageResult.duration,
		DurationTransform: transformDur,
		DurationTotal:     time.Since(totalStart),
	}

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_staged", summary.RowsStaged).
		Int64("rows_rejected", summary.RowsRejected).
		Int64("procedures", summary.ProceduresWritten).
		Int64("hospitals", summary.HospitalsWritten).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("reference load complete")

	return summary, nil
}

type stageResult struct {
	rowsRead     int64
	rowsStaged   int64
	rowsRejected int64
	duration     time.Duration
}

// stage streams rows from the Parquet file, normalizes them, and
// COPY-loads them into the staging table via a channel-backed
// CopyFromSource.
func stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, path string, batchID uuid.UUID) (*stageResult, error) {
	start := time.Now()

	reader, err := parquetread.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stage open: %w", err)
	}
	defer reader.Close()

	if err := parquetread.ValidateSchema(reader.Schema()); err != nil {
		return nil, fmt.Errorf("stage schema: %w", err)
	}

	ch := make(chan *model.RateStagingRow, readBatchSize)
	errCh := make(chan error, 1)

	var rowsRead, rowsRejected int64

	// Producer goroutine: read Parquet, normalize, push to channel.
	go func() {
		defer close(ch)
		buf := make([]model.ReferenceRateRow, readBatchSize)
		var rowNum int64

		for {
			n, readErr := reader.Read(buf)
			for i := 0; i < n; i++ {
				rowNum++
				rowsRead++

				staging, normErr := normalize.ToRateStagingRow(&buf[i], batchID, rowNum)
				if normErr != nil {
					rowsRejected++
					log.Warn().Err(normErr).Int64("row", rowNum).Msg("row rejected")
					continue
				}

				select {
				case ch <- staging:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				errCh <- fmt.Errorf("read parquet at row %d: %w", rowNum, readErr)
				return
			}
		}
		errCh <- nil
	}()

	source := db.NewRateSource(ch)
	rowsStaged, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "stage_reference_rates"},
		model.RateStagingColumns(),
		source,
	)

	prodErr := <-errCh
	if prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_read", rowsRead).
		Int64("rows_staged", rowsStaged).
		Int64("rows_rejected", rowsRejected).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rowsStaged)/dur.Seconds()).
		Msg("staging complete")

	return &stageResult{
		rowsRead:     rowsRead,
		rowsStaged:   rowsStaged,
		rowsRejected: rowsRejected,
		duration:     dur,
	}, nil
}

// upsertReference folds the staged batch into ref.procedures and
// ref.hospitals inside one transaction.
func upsertReference(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, batchID uuid.UUID) (procedures, hospitals int64, err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	procTag, err := tx.Exec(ctx, embedsql.UpsertProceduresFromStaging, batchID)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert procedures: %w", err)
	}
	hospTag, err := tx.Exec(ctx, embedsql.UpsertHospitalsFromStaging, batchID)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert hospitals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}

	log.Info().
		Int64("procedures", procTag.RowsAffected()).
		Int64("hospitals", hospTag.RowsAffected()).
		Msg("reference upsert complete")

	return procTag.RowsAffected(), hospTag.RowsAffected(), nil
}

func deleteStagingBatch(ctx context.Context, pool *pgxpool.Pool, batchID uuid.UUID) error {
	_, err := pool.Exec(ctx, embedsql.DeleteStagingBatch, batchID)
	return err
}
