// Package engine wraps a single-instrument order book with the narrow
// collaborator surface (a Reporter) that lets a transport observe trades
// and rejections without the book depending on the transport.
package engine

import "crossbook/internal/common"

// Reporter is notified after Submit and Modify calls: once per produced
// trade, and once through ReportRejected when a submitted order was dropped
// by the book without producing any trade. An order that is accepted and
// rests without trading produces no notification. The engine never blocks
// on a Reporter call while holding the book's lock — the book call returns
// first, then the reporter is invoked.
type Reporter interface {
	// ReportTrade is called once per trade produced by a Submit or Modify
	// call.
	ReportTrade(trade common.Trade) error
	// ReportRejected is called when order was not accepted into the book
	// at all (duplicate id, unfillable policy order).
	ReportRejected(order *common.Order) error
}

// noopReporter discards everything; it is the default when no Reporter is
// configured, so the engine never needs a nil check on its hot path.
type noopReporter struct{}

func (noopReporter) ReportTrade(common.Trade) error    { return nil }
func (noopReporter) ReportRejected(*common.Order) error { return nil }
