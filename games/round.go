/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

// Phase is where a round-based session currently is.
type Phase int

const (
	PhaseEnded Phase = iota // no session running
	PhaseWaiting
	PhaseStarting
	PhaseSubmitting
	PhaseVoting
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseStarting:
		return "starting"
	case PhaseSubmitting:
		return "submitting"
	case PhaseVoting:
		return "voting"
	case PhaseResolved:
		return "resolved"
	default:
		return "ended"
	}
}

// RoundPlayer is a seated player of a round-based session.
type RoundPlayer struct {
	ID         string
	Name       string
	Score      int
	Submission string
	Submitted  bool
	Faker      bool
}

// RoundTimings are the pauses after a round resolves.
type RoundTimings struct {
	Next  time.Duration
	Final time.Duration
}

// RoundRules is what differs between the submit-then-vote games.
type RoundRules interface {
	// Begin draws the round's content and assigns roles.
	Begin(g *RoundGame)
	// Deal is the round start payload for one player.
	Deal(g *RoundGame, p *RoundPlayer) any
	// Reveal is the payload that opens voting.
	Reveal(g *RoundGame) any
	// Target maps the id a voter picked onto the key the vote is stored
	// under, rejecting anything that is not on the board.
	Target(g *RoundGame, voter *RoundPlayer, target string) (string, bool)
	// Resolve scores the round and returns the results payload.
	Resolve(g *RoundGame) any
	Final(standings []Standing) any
}

type roundEvents struct {
	waiting string
	start   string
	reveal  string
	results string
	over    string
}

func eventsFor(a Activity) roundEvents {
	p := a.String()

	reveal := p + "_show_definitions"
	if a == ActivityFakinIt {
		reveal = p + "_show_answers"
	}

	return roundEvents{
		waiting: p + "_waiting",
		start:   p + "_round_start",
		reveal:  reveal,
		results: p + "_round_results",
		over:    p + "_game_over",
	}
}

// RoundGame drives one submit-then-vote session: wait for the roster, then
// rounds of submissions, votes and scoring until the round limit.
type RoundGame struct {
	srv      *Server
	activity Activity
	rules    RoundRules
	events   roundEvents
	timings  RoundTimings

	phase    Phase
	gen      uint64
	seats    *Seating
	players  map[string]*RoundPlayer // conn id -> player
	departed map[string]*RoundPlayer // name -> player kept for a rejoin
	aliases  map[string]string       // every conn id seated this session -> name
	round    int
	votes    map[string]string // voter name -> target key
	reveal   any
	used     map[int]bool
	pending  Timer

	lastActive time.Time
}

func newRoundGame(s *Server, a Activity, rules RoundRules, timings RoundTimings) *RoundGame {
	return &RoundGame{
		srv:      s,
		activity: a,
		rules:    rules,
		events:   eventsFor(a),
		timings:  timings,
		players:  make(map[string]*RoundPlayer),
		departed: make(map[string]*RoundPlayer),
		aliases:  make(map[string]string),
		votes:    make(map[string]string),
		used:     make(map[int]bool),
	}
}

func (g *RoundGame) Active() bool {
	return g.phase != PhaseEnded
}

func (g *RoundGame) Phase() Phase {
	return g.phase
}

func (g *RoundGame) Round() int {
	return g.round
}

// Player returns the seated player using connID.
func (g *RoundGame) Player(connID string) (*RoundPlayer, bool) {
	p, ok := g.players[connID]
	return p, ok
}

// Start opens a new session for the given roster, replacing any session
// still running.
func (g *RoundGame) Start(names []string) {
	stopTimer(g.pending)
	g.pending = nil
	g.gen++

	g.phase = PhaseWaiting
	g.seats = newSeating(names)
	g.players = make(map[string]*RoundPlayer)
	g.departed = make(map[string]*RoundPlayer)
	g.aliases = make(map[string]string)
	g.votes = make(map[string]string)
	g.used = make(map[int]bool)
	g.reveal = nil
	g.round = 0
	g.touch()

	g.srv.log.Info("session created",
		zap.String("game", g.activity.String()),
		zap.Strings("players", names),
	)
}

// Join seats c under the requested name, or the next free one.
func (g *RoundGame) Join(c *Client, requested string) error {
	if !g.Active() {
		return ErrNoSession
	}

	if requested == "" {
		requested = c.name
	}

	name, err := g.seats.Claim(requested, c.id)
	if err != nil {
		g.srv.log.Info("no seat left",
			zap.String("game", g.activity.String()),
			zap.String("conn", c.id),
			zap.String("player", requested),
		)

		return err
	}

	g.srv.moveTo(c, g.activity)
	c.name = name
	g.aliases[c.id] = name

	if _, ok := g.players[c.id]; ok {
		return nil
	}

	// A returning player picks up their score and this round's answer and
	// role under the new connection.
	p, ok := g.departed[name]
	if ok {
		delete(g.departed, name)
		p.ID = c.id
	} else {
		p = &RoundPlayer{ID: c.id, Name: name}
	}
	g.players[c.id] = p
	g.touch()

	g.srv.log.Debug("player joined session",
		zap.String("game", g.activity.String()),
		zap.String("conn", c.id),
		zap.String("player", name),
	)

	switch g.phase {
	case PhaseWaiting:
		g.srv.broadcast(g.activity, g.events.waiting, map[string]int{
			"playerCount": g.seats.Len(),
			"expected":    g.seats.Expected(),
		})
		if g.seats.Full() {
			g.phase = PhaseStarting
			g.schedule(g.srv.opts.JoinGrace, g.beginRound)
		}
	case PhaseSubmitting:
		g.srv.emit(c, g.events.start, g.rules.Deal(g, p))
	case PhaseVoting:
		g.srv.emit(c, g.events.reveal, g.reveal)
	}

	return nil
}

func (g *RoundGame) beginRound() {
	g.round++
	g.votes = make(map[string]string)
	g.reveal = nil
	for _, players := range []map[string]*RoundPlayer{g.players, g.departed} {
		for _, p := range players {
			p.Submission = ""
			p.Submitted = false
			p.Faker = false
		}
	}

	g.rules.Begin(g)
	g.phase = PhaseSubmitting

	g.srv.log.Debug("round started",
		zap.String("game", g.activity.String()),
		zap.Int("round", g.round),
	)

	for _, p := range g.ordered() {
		g.srv.emitTo(p.ID, g.events.start, g.rules.Deal(g, p))
	}

	g.deadline(g.srv.opts.SubmitTimeout, g.openVoting)
}

// Submit records c's one answer or definition for this round.
func (g *RoundGame) Submit(c *Client, text string) error {
	p, ok := g.players[c.id]
	switch {
	case !ok:
		return ErrNotInSession
	case g.phase != PhaseSubmitting:
		return ErrWrongPhase
	case p.Submitted:
		return ErrAlreadySubmitted
	}

	p.Submission = text
	p.Submitted = true
	g.touch()

	g.checkSubmissions()

	return nil
}

func (g *RoundGame) checkSubmissions() {
	if g.phase != PhaseSubmitting || len(g.players) == 0 {
		return
	}
	for _, p := range g.players {
		if !p.Submitted {
			return
		}
	}

	g.openVoting()
}

func (g *RoundGame) openVoting() {
	g.phase = PhaseVoting
	g.reveal = g.rules.Reveal(g)
	g.srv.broadcast(g.activity, g.events.reveal, g.reveal)

	g.deadline(g.srv.opts.VoteTimeout, g.resolve)
}

// Vote records c's one vote for this round.
func (g *RoundGame) Vote(c *Client, target string) error {
	p, ok := g.players[c.id]
	switch {
	case !ok:
		return ErrNotInSession
	case g.phase != PhaseVoting:
		return ErrWrongPhase
	}
	if _, voted := g.votes[p.Name]; voted {
		return ErrAlreadyVoted
	}
	key, ok := g.rules.Target(g, p, target)
	if !ok {
		return ErrUnknownTarget
	}

	g.votes[p.Name] = key
	g.touch()

	g.checkVotes()

	return nil
}

func (g *RoundGame) checkVotes() {
	if g.phase != PhaseVoting || len(g.players) == 0 {
		return
	}
	for _, p := range g.players {
		if _, ok := g.votes[p.Name]; !ok {
			return
		}
	}

	g.resolve()
}

func (g *RoundGame) resolve() {
	g.phase = PhaseResolved
	results := g.rules.Resolve(g)
	g.srv.broadcast(g.activity, g.events.results, results)

	if g.round >= g.srv.opts.RoundLimit {
		g.schedule(g.timings.Final, g.end)
		return
	}

	g.schedule(g.timings.Next, g.beginRound)
}

// end closes the session and sends the final standings.
func (g *RoundGame) end() {
	if !g.Active() {
		return
	}

	standings := g.Standings()

	stopTimer(g.pending)
	g.pending = nil
	g.phase = PhaseEnded
	g.gen++

	g.srv.log.Info("session ended",
		zap.String("game", g.activity.String()),
		zap.Int("round", g.round),
	)

	g.srv.broadcast(g.activity, g.events.over, g.rules.Final(standings))

	for id := range g.players {
		if c, ok := g.srv.clients[id]; ok && c.activity == g.activity {
			c.activity = ActivityNone
		}
	}
	g.players = make(map[string]*RoundPlayer)
	g.votes = make(map[string]string)
}

// Standings are the seated players sorted by score, highest first. Equal
// scores keep roster order.
func (g *RoundGame) Standings() []Standing {
	players := g.ordered()
	slices.SortStableFunc(players, func(a, b *RoundPlayer) int {
		return b.Score - a.Score
	})

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{Name: p.Name, Score: p.Score})
	}

	return standings
}

// leave runs after c has been detached from the room. The phase check runs
// again right away so nobody waits on the departed player.
func (g *RoundGame) leave(c *Client) {
	p, ok := g.players[c.id]
	if !ok {
		return
	}

	delete(g.players, c.id)
	delete(g.votes, p.Name)
	g.seats.Release(c.id)
	g.departed[p.Name] = p
	g.touch()

	g.srv.log.Debug("player left session",
		zap.String("game", g.activity.String()),
		zap.String("conn", c.id),
		zap.String("player", p.Name),
	)

	switch g.phase {
	case PhaseWaiting:
		return
	case PhaseStarting:
		stopTimer(g.pending)
		g.pending = nil
		g.phase = PhaseWaiting
		return
	}

	if len(g.players) == 0 {
		g.end()
		return
	}

	switch g.phase {
	case PhaseSubmitting:
		g.checkSubmissions()
	case PhaseVoting:
		g.checkVotes()
	}
}

// expire ends a session nobody has touched for longer than timeout.
func (g *RoundGame) expire(now time.Time, timeout time.Duration) {
	if !g.Active() || now.Sub(g.lastActive) <= timeout {
		return
	}

	g.srv.log.Info("reaping idle session", zap.String("game", g.activity.String()))
	g.end()
}

// schedule replaces the pending timer. The callback is dropped if the
// session, round or phase moved on before it fired.
func (g *RoundGame) schedule(d time.Duration, fn func()) {
	stopTimer(g.pending)
	g.pending = nil

	gen, round, phase := g.gen, g.round, g.phase
	g.pending = g.srv.after(d, func() {
		if g.gen != gen || g.round != round || g.phase != phase {
			return
		}
		g.pending = nil
		fn()
	})
}

// deadline closes the current phase after d. Zero disables it.
func (g *RoundGame) deadline(d time.Duration, fn func()) {
	if d <= 0 {
		stopTimer(g.pending)
		g.pending = nil
		return
	}

	g.schedule(d, fn)
}

// seatName resolves any connection id that held a seat this session, so
// ids shown before a reconnect still point at the same player.
func (g *RoundGame) seatName(connID string) (string, bool) {
	name, ok := g.aliases[connID]
	return name, ok
}

// byName returns the seated player currently playing name.
func (g *RoundGame) byName(name string) (*RoundPlayer, bool) {
	for _, p := range g.players {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// ordered lists seated players in roster order.
func (g *RoundGame) ordered() []*RoundPlayer {
	players := make([]*RoundPlayer, 0, len(g.players))
	for _, id := range g.seats.Order() {
		if p, ok := g.players[id]; ok {
			players = append(players, p)
		}
	}

	return players
}

// draw picks an index in [0, n) not used yet this session. Once every
// index has been used the pool starts over.
func (g *RoundGame) draw(n int) int {
	if n <= 0 {
		return -1
	}
	if len(g.used) >= n {
		clear(g.used)
	}

	free := make([]int, 0, n-len(g.used))
	for i := range n {
		if !g.used[i] {
			free = append(free, i)
		}
	}

	i := free[g.srv.rng.IntN(len(free))]
	g.used[i] = true

	return i
}

func (g *RoundGame) shuffle(n int, swap func(i, j int)) {
	g.srv.rng.Shuffle(n, swap)
}

func (g *RoundGame) touch() {
	g.lastActive = g.srv.now()
}
