package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	embedsql "github.com/gyeh/pricemelt/internal/sql"
)

// Source file statuses.
const (
	StatusPending = "pending"
	StatusLoading = "loading"
	StatusLoaded  = "loaded"
	StatusFailed  = "failed"
)

// Querier is the subset of *pgxpool.Pool (and pgx.Tx) the registry uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SourceFile is one row of ingest.source_files.
type SourceFile struct {
	ID           int64
	FileName     string
	FilePath     string
	SHA256       string
	SizeBytes    int64
	HospitalName string
	Status       string
}

// Identifier parses "schema.table" into a pgx.Identifier.
func Identifier(qualified string) pgx.Identifier {
	return pgx.Identifier(strings.Split(qualified, "."))
}

// RegisterSourceFile inserts f, or finds the existing row with the same
// SHA-256. existed reports whether the file was already registered; the
// returned SourceFile then carries the stored ID and status.
func RegisterSourceFile(ctx context.Context, q Querier, f SourceFile) (SourceFile, bool, error) {
	err := q.QueryRow(ctx, embedsql.RegisterSourceFile,
		f.FileName, f.FilePath, f.SHA256, f.SizeBytes, nilIfEmpty(f.HospitalName),
	).Scan(&f.ID)
	if err == nil {
		f.Status = StatusPending
		return f, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return f, false, fmt.Errorf("register source file: %w", err)
	}

	// ON CONFLICT DO NOTHING returned no row
	if err := q.QueryRow(ctx, embedsql.LookupSourceFile, f.SHA256).Scan(&f.ID, &f.Status); err != nil {
		return f, false, fmt.Errorf("lookup source file: %w", err)
	}
	return f, true, nil
}

// SetStatus moves a source file to status. errMsg is stored for failures
// and cleared otherwise.
func SetStatus(ctx context.Context, q Querier, id int64, status, errMsg string) error {
	if _, err := q.Exec(ctx, embedsql.UpdateSourceStatus, id, status, nilIfEmpty(errMsg)); err != nil {
		return fmt.Errorf("set source file %d status %s: %w", id, status, err)
	}
	return nil
}

// MarkLoaded records a successful load.
func MarkLoaded(ctx context.Context, q Querier, id int64, batch uuid.UUID, rows int64, hospital string) error {
	if _, err := q.Exec(ctx, embedsql.FinishSourceFile, id, batch, rows, nilIfEmpty(hospital)); err != nil {
		return fmt.Errorf("mark source file %d loaded: %w", id, err)
	}
	return nil
}

// DeleteSourceRows removes every row previously loaded from a source file.
func DeleteSourceRows(ctx context.Context, q Querier, table pgx.Identifier, id int64) (int64, error) {
	tag, err := q.Exec(ctx, fmt.Sprintf(embedsql.DeleteSourceRows, table.Sanitize()), id)
	if err != nil {
		return 0, fmt.Errorf("delete rows of source file %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// UpsertDimensions adds the batch's distinct payers and payer/plan pairs
// to ref.payers and ref.plans.
func UpsertDimensions(ctx context.Context, q Querier, table pgx.Identifier, batch uuid.UUID) (payers, plans int64, err error) {
	tag, err := q.Exec(ctx, fmt.Sprintf(embedsql.UpsertPayers, table.Sanitize()), batch)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert payers: %w", err)
	}
	payers = tag.RowsAffected()

	tag, err = q.Exec(ctx, fmt.Sprintf(embedsql.UpsertPlans, table.Sanitize()), batch)
	if err != nil {
		return payers, 0, fmt.Errorf("upsert plans: %w", err)
	}
	return payers, tag.RowsAffected(), nil
}

// Analyze refreshes planner statistics for table.
func Analyze(ctx context.Context, q Querier, table pgx.Identifier) error {
	if _, err := q.Exec(ctx, "ANALYZE "+table.Sanitize()); err != nil {
		return fmt.Errorf("analyze %s: %w", table.Sanitize(), err)
	}
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
