/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"math/rand/v2"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	pending := !t.stopped && !t.fired
	t.stopped = true

	return pending
}

// fakeScheduler runs callbacks only when the test advances its clock.
type fakeScheduler struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.seq++
	t := &fakeTimer{at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)

	return t
}

// advance fires every timer due within d in due order, including timers
// armed by the callbacks themselves.
func (s *fakeScheduler) advance(d time.Duration) {
	end := s.now + d
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.at > end {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}

		s.now = next.at
		next.fired = true
		next.f()
	}
	s.now = end
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}

	return n
}

type testServer struct {
	t     *testing.T
	srv   *Server
	sched *fakeScheduler
	clock time.Time
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.SubmitTimeout = 0
	opts.VoteTimeout = 0

	return opts
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	ts := &testServer{
		t:     t,
		sched: &fakeScheduler{},
		clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	ts.srv = newServer(zaptest.NewLogger(t), opts, DefaultContent(), ts.sched, rand.New(rand.NewPCG(1, 2)))
	ts.srv.now = func() time.Time {
		return ts.clock.Add(ts.sched.now)
	}

	return ts
}

// connect registers a client without a socket; its frames stay in send.
func (ts *testServer) connect(name string) *Client {
	ts.t.Helper()

	c := ts.srv.newClient()
	c.send = make(chan Envelope, 1024)
	ts.srv.connect(c)
	drain(c)

	if name != "" {
		ts.must(c, EventSetPlayerName, map[string]any{"name": name})
	}

	return c
}

func (ts *testServer) do(c *Client, event string, data map[string]any) error {
	return ts.srv.route(c, Message{Event: event, Data: data})
}

func (ts *testServer) must(c *Client, event string, data map[string]any) {
	ts.t.Helper()

	if err := ts.do(c, event, data); err != nil {
		ts.t.Fatalf("%s: unexpected error: %v", event, err)
	}
}

// lobby puts every client in the lobby, ready, voting for title.
func (ts *testServer) lobby(title string, clients ...*Client) {
	ts.t.Helper()

	for _, c := range clients {
		ts.must(c, EventJoinLobby, nil)
		ts.must(c, EventToggleReady, nil)
		if title != "" {
			ts.must(c, EventSelectGame, map[string]any{"game": title})
		}
	}
}

// drain empties the client's outbox.
func drain(c *Client) []Envelope {
	var out []Envelope
	for {
		select {
		case e, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func filter(envs []Envelope, event string) []Envelope {
	var out []Envelope
	for _, e := range envs {
		if e.Event == event {
			out = append(out, e)
		}
	}

	return out
}

func eventNames(envs []Envelope) []string {
	names := make([]string, 0, len(envs))
	for _, e := range envs {
		names = append(names, e.Event)
	}

	return names
}
