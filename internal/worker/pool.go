// Package worker implements a bounded pool of goroutines draining a task
// channel under a tomb.Tomb, adapted from the teacher repository's
// internal/worker.go (which never actually bounded its pool — its
// WorkerFunction never read the configured size into the live-worker
// count. This version does.)
package worker

import (
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

const defaultTaskChanSize = 100

// Function processes a single task. Returning a non-nil error makes the
// worker that returned it exit, and kills the tomb it runs under, which
// stops every other worker of the pool as well.
type Function func(t *tomb.Tomb, task any) error

// Pool is a bounded set of goroutines, each pulling tasks off a shared
// channel until the tomb dies or the channel closes.
type Pool struct {
	size   int
	tasks  chan any
	logger zerolog.Logger
}

// New returns a Pool sized to run up to size concurrent workers.
func New(size int, logger zerolog.Logger) Pool {
	return Pool{
		size:   size,
		tasks:  make(chan any, defaultTaskChanSize),
		logger: logger,
	}
}

// AddTask enqueues a task for the next free worker.
func (p *Pool) AddTask(task any) {
	p.tasks <- task
}

// Setup starts exactly size workers under t, each running work against
// tasks pulled from the pool. It blocks until t is dying.
func (p *Pool) Setup(t *tomb.Tomb, work Function) {
	for i := 0; i < p.size; i++ {
		id := i
		t.Go(func() error {
			return p.worker(t, id, work)
		})
	}
	<-t.Dying()
}

// worker pulls tasks from the pool until the channel closes, t dies, or
// work returns an error.
func (p *Pool) worker(t *tomb.Tomb, id int, work Function) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task, ok := <-p.tasks:
			if !ok {
				return nil
			}
			if err := work(t, task); err != nil {
				p.logger.Error().Err(err).Int("worker_id", id).Msg("worker exiting")
				return err
			}
		}
	}
}
