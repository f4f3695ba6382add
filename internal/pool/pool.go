/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package pool is a fixed-size worker pool that keeps its worker count
// steady even when jobs panic. Jobs are plain nullary functions queued on a
// shared channel; N long-running goroutines range over it. A job panic is
// recovered and logged, and the goroutine that absorbed it spawns its own
// replacement before returning, so the pool never shrinks on a faulty job.
package pool

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/jtolds/gls"

	"github.com/launix-de/kvs/internal/logging"
)

var workerTag = gls.NewContextManager()

// Pool runs jobs on a fixed number of worker goroutines.
type Pool struct {
	jobs    chan func()
	wg      sync.WaitGroup
	nextID  int64
	log     *logging.Logger
}

// New starts n workers consuming from a shared job queue. n is clamped to
// at least 1.
func New(n int, log *logging.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs: make(chan func(), n*4),
		log:  log,
	}
	for i := 0; i < n; i++ {
		p.startWorker(int(atomic.AddInt64(&p.nextID, 1)))
	}
	return p
}

// Spawn enqueues job. It never blocks the caller beyond the channel send
// (the queue is large enough in practice, but a full queue will still only
// block the caller, not corrupt pool state).
func (p *Pool) Spawn(job func()) {
	p.jobs <- job
}

// Shutdown closes the job queue and waits for every worker to drain and
// exit. No further Spawn calls are valid afterward.
func (p *Pool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
}

func (p *Pool) startWorker(id int) {
	p.wg.Add(1)
	go p.runWorker(id)
}

// runWorker is the steady-state loop: receive a job, run it, repeat. If the
// job panics, the panic is recovered in runJob and this function spawns its
// own successor before returning — that is the respawn-on-abnormal-exit
// behavior. Returning because the channel closed (pool shutdown) does not
// respawn.
func (p *Pool) runWorker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		if !p.runJob(id, job) {
			p.startWorker(int(atomic.AddInt64(&p.nextID, 1)))
			return
		}
	}
}

// runJob executes job with panic recovery. It returns false if job panicked,
// signaling the caller that a replacement worker is needed.
func (p *Pool) runJob(id int, job func()) (ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			ok = false
			worker, _ := workerTag.GetValue("worker")
			p.log.Errorf("pool: worker %v panic: %v\n%s", worker, r, debug.Stack())
		}
	}()
	workerTag.SetValues(gls.Values{"worker": id}, job)
	return
}
