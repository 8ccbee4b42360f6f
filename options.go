package gridsheet

import "log/slog"

// Options holds configuration shared by Sheet, Session and Evaluator.
type Options struct {
	defaultRows        int
	defaultCols        int
	defaultColumnWidth float64
	defaultRowHeight   float64
	minSize            float64
	maxRangeCells      int
	allowMergeOverlap  bool
	historyLimit       int
	logger             *slog.Logger
}

func defaultOptions() *Options {
	return &Options{
		defaultRows:        20,
		defaultCols:        10,
		defaultColumnWidth: 100,
		defaultRowHeight:   32,
		minSize:            30,
		maxRangeCells:      1 << 16,
		historyLimit:       100,
		logger:             slog.New(slog.DiscardHandler),
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.defaultColumnWidth < o.minSize {
		o.defaultColumnWidth = o.minSize
	}
	if o.defaultRowHeight < o.minSize {
		o.defaultRowHeight = o.minSize
	}
	return o
}

// Option configures a Sheet, Session or Evaluator.
type Option func(*Options)

// WithDefaultSize sets the dimensions of a freshly defaulted grid (default: 20 rows, 10 columns).
func WithDefaultSize(rows, cols int) Option {
	return func(o *Options) {
		if rows > 0 {
			o.defaultRows = rows
		}
		if cols > 0 {
			o.defaultCols = cols
		}
	}
}

// WithDefaultColumnWidth sets the width given to every column of a defaulted grid (default: 100).
func WithDefaultColumnWidth(w float64) Option {
	return func(o *Options) { o.defaultColumnWidth = w }
}

// WithDefaultRowHeight sets the height given to every row of a defaulted grid (default: 32).
func WithDefaultRowHeight(h float64) Option {
	return func(o *Options) { o.defaultRowHeight = h }
}

// WithMinSize sets the floor applied to column widths and row heights (default: 30).
func WithMinSize(floor float64) Option {
	return func(o *Options) {
		if floor > 0 {
			o.minSize = floor
		}
	}
}

// WithMaxRangeCells limits how many cells a single range reference may span
// before the formula evaluates to #VALUE! (default: 65536).
func WithMaxRangeCells(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxRangeCells = n
		}
	}
}

// WithMergeOverlap controls whether a merge may overlap an existing region.
// Overlap is rejected with ErrMergeOverlap by default.
func WithMergeOverlap(allow bool) Option {
	return func(o *Options) { o.allowMergeOverlap = allow }
}

// WithHistoryLimit bounds the number of undo steps a Session keeps (default: 100).
func WithHistoryLimit(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.historyLimit = n
		}
	}
}

// WithLogger sets the structured logger. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}
