// Package melt turns a resolved wide or row-wise price table into
// canonical long rows: one row per (source row, price column) pair that
// has a code, a code type and a usable amount.
package melt

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/pricemelt/internal/banner"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/semantics"
	"github.com/gyeh/pricemelt/internal/table"
	"github.com/gyeh/pricemelt/internal/vocab"
)

// Drop reasons, checked in this order.
const (
	DropMissingCode     = "missing_code"
	DropMissingCodeType = "missing_code_type"
	DropMissingAmount   = "missing_amount"
)

// ReasonNoPriceColumns is reported when a table has nothing to melt.
const ReasonNoPriceColumns = "no price-fact columns found"

const (
	defaultChunkSize = 5000
	ctxCheckEvery    = 1024
)

// Options controls row-level parallelism.
type Options struct {
	Workers   int // <= 1 processes rows sequentially
	ChunkSize int // rows per worker chunk
}

// Source identifies where the rows came from.
type Source struct {
	HospitalName string
	File         string
}

// Stats are diagnostic counters for one Normalize call.
type Stats struct {
	DataRows      int
	PriceColumns  int
	Candidates    int64 // DataRows × PriceColumns
	DropReasons   map[string]int64
	UncleanValues int64 // non-empty amount cells that failed to parse
}

// Result is the output of Normalize. len(Rows) + Dropped always equals
// Stats.Candidates.
type Result struct {
	Rows    []model.LongRow
	Dropped int64
	Reason  string
	Variant semantics.Variant
	Stats   Stats
}

// Engine melts tables. It holds no per-table state and is safe for
// concurrent use.
type Engine struct {
	vocab *vocab.Vocabulary
	opts  Options
}

// New returns an Engine.
func New(v *vocab.Vocabulary, opts Options) *Engine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	return &Engine{vocab: v, opts: opts}
}

// Normalize emits one long row per (data row, price column) pair, or
// counts it as dropped. t must have its header as row 0 (banner rows
// already removed) and hm must come from that header. The only error is
// ctx's.
func (e *Engine) Normalize(ctx context.Context, t table.Table, hm *semantics.HeaderMap, blob banner.Blob, src Source) (*Result, error) {
	p := compile(e.vocab, hm, blob, src)
	data := t.Data()

	res := &Result{
		Variant: hm.Variant(),
		Stats: Stats{
			DataRows:     len(data),
			PriceColumns: len(p.prices),
			Candidates:   int64(len(data)) * int64(len(p.prices)),
			DropReasons:  map[string]int64{},
		},
	}
	if len(p.prices) == 0 {
		res.Reason = ReasonNoPriceColumns
		return res, nil
	}

	var parts []chunk
	if e.opts.Workers <= 1 || len(data) <= e.opts.ChunkSize {
		c, err := p.meltRows(ctx, data)
		if err != nil {
			return nil, err
		}
		parts = []chunk{c}
	} else {
		var err error
		parts, err = e.parallel(ctx, p, data)
		if err != nil {
			return nil, err
		}
	}

	total := 0
	for _, c := range parts {
		total += len(c.rows)
	}
	res.Rows = make([]model.LongRow, 0, total)
	for _, c := range parts {
		res.Rows = append(res.Rows, c.rows...)
		res.Dropped += c.dropped
		res.Stats.UncleanValues += c.unclean
		for k, n := range c.reasons {
			res.Stats.DropReasons[k] += n
		}
	}
	return res, nil
}

// parallel splits data into chunks melted by a bounded errgroup. Each
// chunk owns its counters; results are merged in input order.
func (e *Engine) parallel(ctx context.Context, p *plan, data [][]string) ([]chunk, error) {
	n := (len(data) + e.opts.ChunkSize - 1) / e.opts.ChunkSize
	parts := make([]chunk, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := 0; i < n; i++ {
		lo := i * e.opts.ChunkSize
		hi := min(lo+e.opts.ChunkSize, len(data))
		g.Go(func() error {
			c, err := p.meltRows(gctx, data[lo:hi])
			if err != nil {
				return err
			}
			parts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}
