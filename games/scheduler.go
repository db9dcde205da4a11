/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay. Callbacks must end up on the
// server's event loop so they never race with client events.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// loopScheduler hands expired callbacks back to the run loop.
type loopScheduler struct {
	timers chan<- func()
	done   <-chan struct{}
}

func (l loopScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		select {
		case l.timers <- f:
		case <-l.done:
		}
	})
}

// ticker re-arms itself until stopped, giving a fixed-rate loop on top of
// any Scheduler.
type ticker struct {
	sched   Scheduler
	every   time.Duration
	fn      func()
	pending Timer
	stopped bool
}

func startTicker(sched Scheduler, every time.Duration, fn func()) *ticker {
	t := &ticker{
		sched: sched,
		every: every,
		fn:    fn,
	}
	t.arm()

	return t
}

func (t *ticker) arm() {
	t.pending = t.sched.AfterFunc(t.every, func() {
		if t.stopped {
			return
		}
		t.fn()
		if !t.stopped {
			t.arm()
		}
	})
}

func (t *ticker) Stop() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	if t.pending != nil {
		t.pending.Stop()
	}
}

func stopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}
