package book

import (
	"time"

	"crossbook/internal/common"
)

// runPruner is the long-lived background task started by New. It wakes at
// each session close (plus a small grace period), cancels every resting
// GoodForDay order as a single batch under one lock acquisition, and exits
// as soon as a shutdown signal arrives. It is the only goroutine that ever
// suspends; every foreground (public) operation is bounded-time.
func (b *OrderBook) runPruner() error {
	for {
		wait := b.untilNextClose()

		select {
		case <-b.t.Dying():
			return nil
		case <-b.clock.After(wait):
		}

		if b.shutdown.Load() {
			return nil
		}

		b.pruneGoodForDay()
	}
}

// untilNextClose computes the duration from now until the next session
// close instant plus the configured grace period. If the current local
// hour is already at or past the close hour, the next close is rolled to
// the same hour the following calendar day.
func (b *OrderBook) untilNextClose() time.Duration {
	now := b.clock.Now()

	day := now.Day()
	if now.Hour() >= b.sessionCloseHour {
		day++
	}

	next := time.Date(now.Year(), now.Month(), day, b.sessionCloseHour, 0, 0, 0, now.Location())
	return next.Sub(now) + b.pruneGrace
}

// pruneGoodForDay takes a snapshot of every resting GoodForDay order id,
// then cancels them as a batch under a single critical section — exactly
// as a foreground Cancel would, just for many ids at once.
func (b *OrderBook) pruneGoodForDay() {
	b.mu.Lock()
	defer b.mu.Unlock()

	var ids []common.OrderID
	for id, loc := range b.locator.byID {
		if loc.order.Type() == common.GoodForDay {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		b.cancelInternal(id)
	}

	if len(ids) > 0 {
		b.logger.Debug().Int("count", len(ids)).Msg("pruned good-for-day orders")
	}
}
