package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gyeh/pricemelt/internal/banner"
	"github.com/gyeh/pricemelt/internal/config"
	"github.com/gyeh/pricemelt/internal/melt"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/normalize"
	"github.com/gyeh/pricemelt/internal/semantics"
	"github.com/gyeh/pricemelt/internal/shape"
	"github.com/gyeh/pricemelt/internal/table"
	"github.com/gyeh/pricemelt/internal/vocab"
)

// Processor runs the in-memory stages shared by every command: banner
// detection, shape classification, header resolution and melting. It
// holds only immutable configuration and is safe for concurrent use.
type Processor struct {
	vocab      *vocab.Vocabulary
	banner     banner.Detector
	classifier *shape.Classifier
	resolver   *semantics.Resolver
	engine     *melt.Engine
	hospital   string
}

// NewProcessor compiles the vocabulary and thresholds in cfg.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	v, err := cfg.Vocabulary()
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	det, err := banner.New(cfg.BannerStrategy, v)
	if err != nil {
		return nil, err
	}
	return &Processor{
		vocab:      v,
		banner:     det,
		classifier: shape.New(cfg.ShapeOptions()),
		resolver:   semantics.NewResolver(v),
		engine:     melt.New(v, melt.Options{Workers: cfg.MeltWorkers}),
		hospital:   cfg.Hospital,
	}, nil
}

// Inspection is everything learned about a table before melting.
type Inspection struct {
	Label      string
	Table      table.Table // banner rows removed
	BannerRows int
	Blob       banner.Blob
	Meta       banner.HospitalMeta
	Verdict    shape.Verdict
	HeaderMap  *semantics.HeaderMap
	Hospital   string
}

// Inspect strips the banner, classifies the table and resolves its header.
// path is the source file, used for the hospital-name fallback.
func (p *Processor) Inspect(path string, t table.Table) *Inspection {
	body, blob := p.banner.Detect(t)
	in := &Inspection{
		Label:      t.Label,
		Table:      body,
		BannerRows: len(t.Rows) - len(body.Rows),
		Blob:       blob,
		Meta:       blob.Meta(p.vocab),
		Verdict:    p.classifier.Classify(body),
		HeaderMap:  p.resolver.Resolve(body.Header()),
	}
	in.Hospital = p.hospitalName(path, in.Meta)
	return in
}

// hospitalName prefers the configured name, then the banner, then a guess
// from the file name.
func (p *Processor) hospitalName(path string, meta banner.HospitalMeta) string {
	switch {
	case p.hospital != "":
		return p.hospital
	case meta.HospitalName != "":
		return meta.HospitalName
	default:
		return normalize.GuessHospitalName(path)
	}
}

// Melt normalizes an inspected table into long rows.
func (p *Processor) Melt(ctx context.Context, path string, in *Inspection) (*melt.Result, error) {
	src := melt.Source{HospitalName: in.Hospital, File: filepath.Base(path)}
	return p.engine.Normalize(ctx, in.Table, in.HeaderMap, in.Blob, src)
}

// Summary returns the classifier report line for an inspected table.
func (in *Inspection) Summary() model.FileSummary {
	return model.FileSummary{
		File:           DisplayName(in.Label),
		Rows:           in.Table.NumRows(),
		Cols:           in.Table.NumCols(),
		Classification: in.Verdict.Shape,
		Reason:         in.Verdict.Reason,
	}
}
