package book

import (
	"time"

	"github.com/rs/zerolog"

	"crossbook/internal/clock"
)

const (
	defaultSessionCloseHour = 16
	defaultPruneGraceMS     = 100
)

type config struct {
	clock            clock.Clock
	logger           zerolog.Logger
	sessionCloseHour int
	pruneGrace       time.Duration
}

func defaultConfig() config {
	return config{
		clock:            clock.New(),
		logger:           zerolog.Nop(),
		sessionCloseHour: defaultSessionCloseHour,
		pruneGrace:       defaultPruneGraceMS * time.Millisecond,
	}
}

// Option configures an OrderBook at construction time.
type Option func(*config)

// WithClock swaps the real clock for a virtual one, letting tests drive the
// end-of-day pruner deterministically.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithLogger sets the zerolog.Logger used for structured event logging.
// Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithSessionCloseHour sets the local hour (0-23) at which GoodForDay
// orders are pruned. Defaults to 16 (4:00 PM).
func WithSessionCloseHour(hour int) Option {
	return func(cfg *config) { cfg.sessionCloseHour = hour }
}

// WithPruneGrace sets the delay after session close before the pruner
// scans for GoodForDay orders. Defaults to 100ms.
func WithPruneGrace(d time.Duration) Option {
	return func(cfg *config) { cfg.pruneGrace = d }
}
