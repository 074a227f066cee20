package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/pricemelt/internal/model"
)

// LoadColumns is the COPY column list for the long table: the registry
// keys followed by the LongRow columns.
func LoadColumns() []string {
	return append([]string{"source_file_id", "ingest_batch_id"}, model.LongColumns()...)
}

// ChannelSource implements pgx.CopyFromSource by reading LongRows from a
// channel. The channel gives natural backpressure between the producer
// and the COPY writer. Every row is prefixed with the same key values.
type ChannelSource struct {
	ch      <-chan *model.LongRow
	prefix  []any
	current *model.LongRow
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan *model.LongRow, prefix ...any) *ChannelSource {
	return &ChannelSource{ch: ch, prefix: prefix}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in LoadColumns order.
func (s *ChannelSource) Values() ([]any, error) {
	vals := make([]any, 0, len(s.prefix)+len(model.LongColumns()))
	vals = append(vals, s.prefix...)
	return append(vals, s.current.CopyValues()...), nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource) Err() error {
	return s.err
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource)(nil)
