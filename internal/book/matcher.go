package book

import "crossbook/internal/common"

// canMatch reports whether an order of the given side and price would
// cross the opposite side's best price: a Buy crosses when its price is at
// or above the best ask, a Sell crosses when its price is at or below the
// best bid.
func (b *OrderBook) canMatch(side common.Side, price common.Price) bool {
	if side == common.Buy {
		best, ok := b.asks.best()
		if !ok {
			return false
		}
		return price >= best.price
	}
	best, ok := b.bids.best()
	if !ok {
		return false
	}
	return price <= best.price
}

// canFullyFill reports whether at least qty units can be consumed from the
// opposite side at prices no worse than price, using the opposite side's
// level aggregate (remaining quantity, not initial quantity — see
// levelData). It walks the opposite side best-first and stops as soon as
// the accumulator reaches qty, or as soon as it passes the price threshold.
func (b *OrderBook) canFullyFill(side common.Side, price common.Price, qty common.Quantity) bool {
	if !b.canMatch(side, price) {
		return false
	}

	var opposite *sideIndex
	var oppositeAgg *levelAggregate
	if side == common.Buy {
		opposite = b.asks
		oppositeAgg = b.askLevels
	} else {
		opposite = b.bids
		oppositeAgg = b.bidLevels
	}

	var accumulated common.Quantity
	found := false
	opposite.levels.Scan(func(level *priceLevel) bool {
		if side == common.Buy && level.price > price {
			return false
		}
		if side == common.Sell && level.price < price {
			return false
		}
		available, ok := oppositeAgg.get(level.price)
		if !ok {
			return true
		}
		accumulated += available
		if accumulated >= qty {
			found = true
			return false
		}
		return true
	})
	return found
}

// match repeatedly crosses the best bid against the best ask in strict
// price-time priority until the book is no longer crossed, then cancels any
// unfilled residual left at the front of either side by a FillAndKill
// order. It is invoked at the end of every successful Add.
func (b *OrderBook) match() common.Trades {
	var trades common.Trades

	for {
		bidLevel, bidOk := b.bids.best()
		askLevel, askOk := b.asks.best()
		if !bidOk || !askOk || bidLevel.price < askLevel.price {
			break
		}

		for !bidLevel.empty() && !askLevel.empty() {
			bidOrder := bidLevel.front()
			askOrder := askLevel.front()

			matched := bidOrder.RemainingQty()
			if askOrder.RemainingQty() < matched {
				matched = askOrder.RemainingQty()
			}

			// Neither Fill call can ever fail: matched is capped at the
			// smaller side's own remaining quantity.
			_ = bidOrder.Fill(matched)
			_ = askOrder.Fill(matched)

			trades = append(trades, common.Trade{
				BidTrade: common.TradeInfo{OrderID: bidOrder.ID(), Price: bidOrder.Price(), Quantity: matched},
				AskTrade: common.TradeInfo{OrderID: askOrder.ID(), Price: askOrder.Price(), Quantity: matched},
			})

			bidFilled := bidOrder.IsFilled()
			askFilled := askOrder.IsFilled()

			if bidFilled {
				bidLevel.remove(b.locator.byID[bidOrder.ID()].elem)
				b.locator.delete(bidOrder.ID())
			}
			if askFilled {
				askLevel.remove(b.locator.byID[askOrder.ID()].elem)
				b.locator.delete(askOrder.ID())
			}

			b.bidLevels.update(bidOrder.Price(), matched, matchAction(bidFilled))
			b.askLevels.update(askOrder.Price(), matched, matchAction(askFilled))
		}

		b.bids.dropIfEmpty(bidLevel)
		b.asks.dropIfEmpty(askLevel)
	}

	b.cancelResidualFillAndKill(b.bids)
	b.cancelResidualFillAndKill(b.asks)

	return trades
}

func matchAction(filled bool) levelAction {
	if filled {
		return levelRemove
	}
	return levelMatch
}

// cancelResidualFillAndKill removes the side's new front order if it is a
// FillAndKill order that matching left partially (or entirely) unfilled.
func (b *OrderBook) cancelResidualFillAndKill(side *sideIndex) {
	level, ok := side.best()
	if !ok {
		return
	}
	order := level.front()
	if order == nil || order.Type() != common.FillAndKill {
		return
	}
	b.cancelInternal(order.ID())
}
