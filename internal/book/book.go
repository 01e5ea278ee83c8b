// Package book implements a single-instrument limit order book: the
// price-sorted bid/ask sides, the order locator, level aggregates, the
// matching algorithm, and the background end-of-day pruner. This is the
// core described by the specification this package is modeled on — a Go
// rework of a well-known C++ matching engine teaching example.
package book

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"crossbook/internal/clock"
	"crossbook/internal/common"
)

// OrderBook is a single-instrument limit order book. Add, Cancel, Modify,
// Size and Snapshot acquire mu for their full duration; none ever suspends
// or calls out to user code while holding it. Close does not take mu.
type OrderBook struct {
	mu sync.Mutex

	bids *sideIndex
	asks *sideIndex

	bidLevels *levelAggregate
	askLevels *levelAggregate

	locator *locator

	clock            clock.Clock
	logger           zerolog.Logger
	sessionCloseHour int
	pruneGrace       time.Duration

	shutdown atomic.Bool
	t        tomb.Tomb
}

// New constructs an order book and starts its end-of-day pruner goroutine.
// Callers must call Close to signal shutdown and join the pruner before
// discarding the book.
func New(opts ...Option) *OrderBook {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &OrderBook{
		bids:             newBidIndex(),
		asks:             newAskIndex(),
		bidLevels:        newLevelAggregate(),
		askLevels:        newLevelAggregate(),
		locator:          newLocator(),
		clock:            cfg.clock,
		logger:           cfg.logger,
		sessionCloseHour: cfg.sessionCloseHour,
		pruneGrace:       cfg.pruneGrace,
	}

	b.t.Go(b.runPruner)

	return b
}

// Close signals the pruner to stop and blocks until it has exited.
func (b *OrderBook) Close() error {
	b.shutdown.Store(true)
	b.t.Kill(nil)
	return b.t.Wait()
}

// Add validates and inserts order, runs the matcher, and returns any
// trades produced. Duplicate ids, unfillable policy orders (Market with an
// empty opposite side, non-crossing FillAndKill, unsatisfiable
// FillOrKill), are silently dropped: no trades are returned and none of the
// three indices is modified.
func (b *OrderBook) Add(order *common.Order) common.Trades {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addLocked(order)
}

func (b *OrderBook) addLocked(order *common.Order) common.Trades {
	if b.locator.has(order.ID()) {
		return nil
	}

	if order.Type() == common.Market {
		opposite := order.Side().Opposite()
		var best *priceLevel
		var ok bool
		if opposite == common.Sell {
			best, ok = b.asks.best()
		} else {
			best, ok = b.bids.best()
		}
		if !ok {
			return nil
		}
		if err := order.ToGoodTillCancel(best.price); err != nil {
			return nil
		}
	}

	if order.Type() == common.FillAndKill && !b.canMatch(order.Side(), order.Price()) {
		return nil
	}

	if order.Type() == common.FillOrKill && !b.canFullyFill(order.Side(), order.Price(), order.InitialQty()) {
		return nil
	}

	var side *sideIndex
	var agg *levelAggregate
	if order.Side() == common.Buy {
		side = b.bids
		agg = b.bidLevels
	} else {
		side = b.asks
		agg = b.askLevels
	}

	level := side.getOrCreate(order.Price())
	elem := level.pushBack(order)
	b.locator.insert(order.ID(), &orderLocation{order: order, level: level, elem: elem})
	agg.update(order.Price(), order.InitialQty(), levelAdd)

	b.logger.Debug().
		Uint64("order_id", uint64(order.ID())).
		Str("side", order.Side().String()).
		Str("type", order.Type().String()).
		Int64("price", int64(order.Price())).
		Uint64("qty", uint64(order.InitialQty())).
		Msg("order added")

	return b.match()
}

// Cancel removes order id from the book if it is resting. Unknown ids are
// a silent no-op.
func (b *OrderBook) Cancel(id common.OrderID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelInternal(id)
}

// cancelInternal performs the splice-out without acquiring mu; callers
// already hold it (Cancel, the matcher's FillAndKill residual cleanup, and
// the pruner's batch cancel).
func (b *OrderBook) cancelInternal(id common.OrderID) {
	loc, ok := b.locator.get(id)
	if !ok {
		return
	}

	var side *sideIndex
	var agg *levelAggregate
	if loc.order.Side() == common.Buy {
		side = b.bids
		agg = b.bidLevels
	} else {
		side = b.asks
		agg = b.askLevels
	}

	loc.level.remove(loc.elem)
	side.dropIfEmpty(loc.level)
	b.locator.delete(id)
	agg.update(loc.order.Price(), loc.order.RemainingQty(), levelRemove)
}

// Modify is strictly cancel-then-new: it looks up id's current type, cancels
// the resting order, then adds a freshly constructed order carrying
// request's side/price/quantity and the original type. Price-time priority
// of the modified order is reset. An unknown id returns no trades.
func (b *OrderBook) Modify(request common.ModifyRequest) common.Trades {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc, ok := b.locator.get(request.OrderID)
	if !ok {
		return nil
	}
	originalType := loc.order.Type()

	b.cancelInternal(request.OrderID)

	replacement := common.New(request.OrderID, originalType, request.Side, request.Price, request.Quantity)
	return b.addLocked(replacement)
}

// Size returns the number of resting orders.
func (b *OrderBook) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locator.size()
}

// Snapshot returns an aggregated read-only view of per-level totals on both
// sides, in each side's native order (bids descending, asks ascending).
func (b *OrderBook) Snapshot() common.Levels {
	b.mu.Lock()
	defer b.mu.Unlock()
	return common.Levels{
		Bids: b.bids.snapshot(),
		Asks: b.asks.snapshot(),
	}
}
