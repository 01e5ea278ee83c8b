package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossbook/internal/clock"
	"crossbook/internal/common"
)

func TestUntilNextCloseSameDay(t *testing.T) {
	mc := clock.NewManual(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))
	b := New(WithClock(mc), WithSessionCloseHour(16), WithPruneGrace(100*time.Millisecond))
	defer b.Close()

	wait := b.untilNextClose()
	want := time.Date(2026, 3, 5, 16, 0, 0, 0, time.UTC).Sub(mc.Now()) + 100*time.Millisecond
	assert.Equal(t, want, wait)
}

func TestUntilNextCloseRollsToNextDay(t *testing.T) {
	mc := clock.NewManual(time.Date(2026, 3, 5, 17, 30, 0, 0, time.UTC))
	b := New(WithClock(mc), WithSessionCloseHour(16), WithPruneGrace(100*time.Millisecond))
	defer b.Close()

	wait := b.untilNextClose()
	want := time.Date(2026, 3, 6, 16, 0, 0, 0, time.UTC).Sub(mc.Now()) + 100*time.Millisecond
	assert.Equal(t, want, wait)
}

func TestPrunerCancelsGoodForDayAtClose(t *testing.T) {
	mc := clock.NewManual(time.Date(2026, 3, 5, 15, 59, 0, 0, time.UTC))
	b := New(WithClock(mc), WithSessionCloseHour(16), WithPruneGrace(10*time.Millisecond))

	b.Add(common.New(1, common.GoodForDay, common.Buy, 100, 10))
	b.Add(common.New(2, common.GoodTillCancel, common.Buy, 99, 10))
	require.Equal(t, 2, b.Size())

	// Wait for the pruner goroutine to register its wait before advancing
	// the clock, so the advance cannot race ahead of it.
	require.Eventually(t, func() bool { return mc.Waiting() >= 1 }, time.Second, time.Millisecond)

	mc.Advance(2 * time.Minute)

	require.Eventually(t, func() bool {
		return b.Size() == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, b.Close())
}

func TestClosedBookPrunerExitsPromptly(t *testing.T) {
	mc := clock.NewManual(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))
	b := New(WithClock(mc), WithSessionCloseHour(16))

	done := make(chan struct{})
	go func() {
		b.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return promptly")
	}
}
