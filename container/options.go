package container

import "github.com/voges/tsc/internal/options"

// defaultBlockSize is the default records-per-block cap (spec.md §3).
const defaultBlockSize = 10000

// Option configures a Writer at construction, mirroring mebo's
// blob.NumericEncoderOption functional-option pattern.
type Option = options.Option[*Writer]

// WithBlockSize overrides the per-file block-size parameter (blk_lc). It
// has no effect once the first record has been added.
func WithBlockSize(n uint64) Option {
	return options.NoError(func(w *Writer) {
		if n == 0 {
			return
		}
		w.blkLc = n
	})
}
