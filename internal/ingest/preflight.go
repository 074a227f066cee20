package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/db"
	"github.com/gyeh/pricemelt/internal/normalize"
)

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	// FilePath is the original path passed to Preflight, stored as-is.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 digest of the file.
	FileSHA256 string
	// FileSize is the file size in bytes from os.Stat.
	FileSize int64
	// SourceFileID is the ingest.source_files key, new or existing.
	SourceFileID int64
	// IngestBatchID is a fresh UUIDv4 identifying this load; every row
	// COPYed in this run carries it.
	IngestBatchID uuid.UUID
	// PriorStatus is the registry status before this run, or "" for a file
	// seen for the first time.
	PriorStatus string
	// AlreadyLoaded is true when the file was loaded before and force mode
	// is off, signaling the pipeline can skip this file.
	AlreadyLoaded bool
}

// Reimport reports whether rows from an earlier attempt may exist and must
// be removed before loading.
func (pf *PreflightResult) Reimport() bool {
	return pf.PriorStatus != "" && !pf.AlreadyLoaded
}

// Preflight hashes the file and registers it in ingest.source_files.
func Preflight(ctx context.Context, q db.Querier, log zerolog.Logger, filePath string, force bool) (*PreflightResult, error) {
	start := time.Now()

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	sf, existed, err := db.RegisterSourceFile(ctx, q, db.SourceFile{
		FileName:  filepath.Base(filePath),
		FilePath:  filePath,
		SHA256:    sha,
		SizeBytes: stat.Size(),
	})
	if err != nil {
		return nil, fmt.Errorf("preflight register file: %w", err)
	}

	pf := &PreflightResult{
		FilePath:      filePath,
		FileSHA256:    sha,
		FileSize:      stat.Size(),
		SourceFileID:  sf.ID,
		IngestBatchID: uuid.New(),
	}
	if existed {
		pf.PriorStatus = sf.Status
		pf.AlreadyLoaded = sf.Status == db.StatusLoaded && !force
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Int64("source_file_id", sf.ID).
		Str("prior_status", pf.PriorStatus).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")
	return pf, nil
}
