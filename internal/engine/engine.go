package engine

import (
	"github.com/rs/zerolog"

	"crossbook/internal/book"
	"crossbook/internal/common"
)

// Engine owns exactly one OrderBook (this is a single-instrument matching
// engine; routing across symbols is explicitly out of scope) plus the
// Reporter that observes its trades and rejections, and a logger for
// submission-level events the book itself doesn't know about (duplicate
// ids, dropped policy orders).
type Engine struct {
	book     *book.OrderBook
	reporter Reporter
	logger   zerolog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithReporter attaches a Reporter. Defaults to a no-op reporter.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithLogger sets the zerolog.Logger used for submission-level events.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New constructs an Engine around a freshly started OrderBook. bookOpts are
// forwarded to book.New (clock, session close hour, prune grace, logger).
func New(bookOpts []book.Option, opts ...Option) *Engine {
	e := &Engine{
		book:     book.New(bookOpts...),
		reporter: noopReporter{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetReporter swaps the engine's Reporter after construction — needed when
// the reporter (e.g. a net.Server) itself needs a constructed Engine to be
// built first, as in cmd/server.
func (e *Engine) SetReporter(r Reporter) {
	e.reporter = r
}

// Close signals the underlying book's pruner to stop and joins it.
func (e *Engine) Close() error {
	return e.book.Close()
}

// Submit hands order to the book and reports the outcome: one ReportTrade
// call per produced trade, or one ReportRejected call if the book dropped
// it (duplicate id, or an unfillable policy order) and produced nothing.
func (e *Engine) Submit(order *common.Order) common.Trades {
	sizeBefore := e.book.Size()
	trades := e.book.Add(order)

	if len(trades) == 0 && e.book.Size() == sizeBefore {
		e.logger.Info().
			Uint64("order_id", uint64(order.ID())).
			Str("type", order.Type().String()).
			Msg("order rejected")
		_ = e.reporter.ReportRejected(order)
		return trades
	}

	for _, trade := range trades {
		_ = e.reporter.ReportTrade(trade)
	}
	return trades
}

// Cancel forwards to the book. Unknown ids are a silent no-op.
func (e *Engine) Cancel(id common.OrderID) {
	e.book.Cancel(id)
}

// Modify forwards to the book and reports any trades the replacement order
// produced, same as Submit.
func (e *Engine) Modify(request common.ModifyRequest) common.Trades {
	trades := e.book.Modify(request)
	for _, trade := range trades {
		_ = e.reporter.ReportTrade(trade)
	}
	return trades
}

// Size returns the number of resting orders.
func (e *Engine) Size() int {
	return e.book.Size()
}

// Snapshot returns the current per-level view of both sides.
func (e *Engine) Snapshot() common.Levels {
	return e.book.Snapshot()
}
