package engine_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossbook/internal/book"
	"crossbook/internal/common"
	"crossbook/internal/engine"
)

type recordingReporter struct {
	mu        sync.Mutex
	trades    []common.Trade
	rejected  []common.OrderID
}

func (r *recordingReporter) ReportTrade(trade common.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades = append(r.trades, trade)
	return nil
}

func (r *recordingReporter) ReportRejected(order *common.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, order.ID())
	return nil
}

func newTestEngine(t *testing.T, reporter engine.Reporter) *engine.Engine {
	t.Helper()
	eng := engine.New(nil, engine.WithReporter(reporter))
	t.Cleanup(func() {
		require.NoError(t, eng.Close())
	})
	return eng
}

func TestEngineReportsTrade(t *testing.T) {
	reporter := &recordingReporter{}
	eng := newTestEngine(t, reporter)

	eng.Submit(common.New(1, common.GoodTillCancel, common.Buy, 100, 10))
	eng.Submit(common.New(2, common.GoodTillCancel, common.Sell, 100, 10))

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	require.Len(t, reporter.trades, 1)
	assert.Equal(t, common.OrderID(1), reporter.trades[0].BidTrade.OrderID)
}

func TestEngineReportsRejection(t *testing.T) {
	reporter := &recordingReporter{}
	eng := newTestEngine(t, reporter)

	eng.Submit(common.New(1, common.GoodTillCancel, common.Sell, 100, 10))
	fok := common.New(2, common.FillOrKill, common.Buy, 100, 20)
	eng.Submit(fok)

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	require.Len(t, reporter.rejected, 1)
	assert.Equal(t, common.OrderID(2), reporter.rejected[0])
}

func TestEngineSetReporterAfterConstruction(t *testing.T) {
	eng := engine.New([]book.Option{})
	defer eng.Close()

	reporter := &recordingReporter{}
	eng.SetReporter(reporter)

	eng.Submit(common.New(1, common.GoodTillCancel, common.Buy, 100, 10))
	eng.Submit(common.New(2, common.GoodTillCancel, common.Sell, 100, 10))

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	assert.Len(t, reporter.trades, 1)
}
