/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Partylobby game server
//
// Players gather in a single lobby, pick a display name, mark themselves
// ready and vote for a game. Once everyone is ready, any player can start
// the game the lobby voted for; the lobby roster is handed over to that
// game's session by name, and every browser reconnects to the game page.
//
// Games:
// - Sprites: free movement demo, positions streamed on a fixed tick
// - Fakin' It: one faker gets a decoy prompt, everyone votes on who it was
// - Fictionary: bluff a definition for an obscure word, find the real one
// - Scriptionary: Fictionary with programming terms and categories
// - Pac-Man: shared maze, pellets, wandering ghosts
//
// All state lives in one Server owned by the process. Registration,
// requests and timer callbacks are serialized through Server.Run, so none
// of the game code needs its own locking.

package games

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes round pacing and housekeeping.
type Options struct {
	RoundLimit     int
	JoinGrace      time.Duration
	SubmitTimeout  time.Duration
	VoteTimeout    time.Duration
	SessionTimeout time.Duration
	SpriteTick     time.Duration
	GhostTick      time.Duration
}

// DefaultOptions mirrors the pacing players are used to.
func DefaultOptions() Options {
	return Options{
		RoundLimit:     3,
		JoinGrace:      2 * time.Second,
		SubmitTimeout:  90 * time.Second,
		VoteTimeout:    60 * time.Second,
		SessionTimeout: 60 * time.Minute,
		SpriteTick:     100 * time.Millisecond,
		GhostTick:      time.Second,
	}
}

type request struct {
	client *Client
	msg    Message
}

// Server owns every connection, the lobby and one session per game.
type Server struct {
	log      *zap.Logger
	opts     Options
	sched    Scheduler
	rng      *rand.Rand
	validate *validator.Validate
	now      func() time.Time

	clients map[string]*Client
	lobby   *Lobby
	sprites *SpriteGame
	rounds  map[Activity]*RoundGame
	pacman  *PacManGame

	register chan *Client
	unreg    chan *Client
	inbound  chan request
	timers   chan func()
	done     chan struct{}
}

// NewServer builds a server that schedules its timers on its own run loop.
func NewServer(log *zap.Logger, opts Options, content *Content) *Server {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	s := newServer(log, opts, content, nil, rng)
	s.sched = loopScheduler{timers: s.timers, done: s.done}

	return s
}

func newServer(log *zap.Logger, opts Options, content *Content, sched Scheduler, rng *rand.Rand) *Server {
	if content == nil {
		content = DefaultContent()
	}

	s := &Server{
		log:      log,
		opts:     opts,
		sched:    sched,
		rng:      rng,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		clients:  make(map[string]*Client),
		lobby:    newLobby(),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		inbound:  make(chan request),
		timers:   make(chan func(), 64),
		done:     make(chan struct{}),
	}

	s.sprites = newSpriteGame(s)
	s.pacman = newPacManGame(s)
	s.rounds = map[Activity]*RoundGame{
		ActivityFakinIt: newRoundGame(s, ActivityFakinIt, &fakinItRules{prompts: content.Prompts},
			RoundTimings{Next: 5 * time.Second, Final: 5 * time.Second}),
		ActivityFictionary: newRoundGame(s, ActivityFictionary, &bluffRules{entries: content.Words},
			RoundTimings{Next: 6 * time.Second, Final: 10 * time.Second}),
		ActivityScriptionary: newRoundGame(s, ActivityScriptionary, &bluffRules{entries: content.Terms, categorized: true},
			RoundTimings{Next: 6 * time.Second, Final: 10 * time.Second}),
	}

	return s
}

// Run processes events until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer close(s.done)

	var reaper *ticker
	if s.opts.SessionTimeout > 0 {
		reaper = startTicker(s.sched, s.opts.SessionTimeout/2, s.reap)
	}
	defer reaper.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-s.register:
			s.connect(c)
		case c := <-s.unreg:
			s.disconnect(c)
		case req := <-s.inbound:
			s.handle(req.client, req.msg)
		case fn := <-s.timers:
			fn()
		}
	}
}

func (s *Server) newClient() *Client {
	return &Client{
		id:   uuid.NewString(),
		send: make(chan Envelope, 64),
	}
}

func (s *Server) connect(c *Client) {
	s.clients[c.id] = c
	s.log.Debug("client connected", zap.String("conn", c.id))
	s.emit(c, EventConnected, map[string]string{"id": c.id})
}

func (s *Server) disconnect(c *Client) {
	if _, ok := s.clients[c.id]; !ok {
		return
	}

	s.leave(c)
	delete(s.clients, c.id)
	c.close()

	s.log.Debug("client disconnected", zap.String("conn", c.id), zap.String("player", c.name))
}

// handle routes one client request and reports failures back to the sender.
func (s *Server) handle(c *Client, msg Message) {
	if _, ok := s.clients[c.id]; !ok {
		return
	}

	if err := s.route(c, msg); err != nil {
		s.log.Debug("request rejected",
			zap.String("conn", c.id),
			zap.String("event", msg.Event),
			zap.Error(err),
		)
		s.emit(c, EventRejected, Rejection{Request: msg.Event, Reason: err.Error()})
	}
}

func (s *Server) route(c *Client, msg Message) error {
	switch msg.Event {
	case EventSetPlayerName:
		var req setNameRequest
		if err := decodeInto(msg.Data, &req); err != nil {
			return payloadError(err)
		}
		return s.setName(c, req.Name)

	case EventJoinLobby:
		return s.joinLobby(c)

	case EventToggleReady:
		return s.toggleReady(c)

	case EventSelectGame:
		var req selectGameRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.selectGame(c, req.Game)

	case EventStartGame:
		return s.requestStart(c)

	case EventJoinGame:
		return s.sprites.Join(c)

	case EventMovePlayer:
		var req moveSpriteRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.sprites.Move(c, req.Axis, req.Force)

	case EventJoinFakinIt, EventJoinFictionary, EventJoinScript:
		var req joinSessionRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.rounds[joinTargets[msg.Event]].Join(c, req.PlayerName)

	case EventFakinItAnswer:
		var req answerRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.rounds[ActivityFakinIt].Submit(c, req.Answer)

	case EventFictionaryDef, EventScriptDef:
		var req definitionRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.rounds[submitTargets[msg.Event]].Submit(c, req.Definition)

	case EventFakinItVote:
		var req fakerVoteRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.rounds[ActivityFakinIt].Vote(c, req.SuspectedFaker)

	case EventFictionaryVote, EventScriptVote:
		var req definitionVoteRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.rounds[submitTargets[msg.Event]].Vote(c, req.DefinitionID)

	case EventJoinPacMan:
		var req joinSessionRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.pacman.Join(c, req.PlayerName)

	case EventPacManMove:
		var req pacmanMoveRequest
		if err := s.decode(msg.Data, &req); err != nil {
			return err
		}
		return s.pacman.Move(c, req.Direction)

	default:
		return ErrUnknownEvent
	}
}

var joinTargets = map[string]Activity{
	EventJoinFakinIt:    ActivityFakinIt,
	EventJoinFictionary: ActivityFictionary,
	EventJoinScript:     ActivityScriptionary,
}

var submitTargets = map[string]Activity{
	EventFictionaryDef:  ActivityFictionary,
	EventFictionaryVote: ActivityFictionary,
	EventScriptDef:      ActivityScriptionary,
	EventScriptVote:     ActivityScriptionary,
}

func (s *Server) decode(data map[string]any, out any) error {
	if err := decodeInto(data, out); err != nil {
		return payloadError(err)
	}
	if err := s.validate.Struct(out); err != nil {
		return payloadError(err)
	}

	return nil
}

// moveTo makes a the only activity of the client, leaving whatever it was doing.
func (s *Server) moveTo(c *Client, a Activity) {
	if c.activity == a {
		return
	}

	s.leave(c)
	c.activity = a

	s.log.Debug("client changed room", zap.String("conn", c.id), zap.String("room", a.Room()))
}

// leave detaches the client from its current activity before the activity
// cleans up, so the departing client is not part of any farewell broadcast.
func (s *Server) leave(c *Client) {
	a := c.activity
	c.activity = ActivityNone

	switch a {
	case ActivityLobby:
		s.leaveLobby(c)
	case ActivitySprites:
		s.sprites.leave(c)
	case ActivityFakinIt, ActivityFictionary, ActivityScriptionary:
		s.rounds[a].leave(c)
	case ActivityPacMan:
		s.pacman.leave(c)
	}
}

func (s *Server) emit(c *Client, event string, data any) {
	if c.closed {
		return
	}

	select {
	case c.send <- Envelope{Event: event, Data: data}:
	default:
		s.log.Warn("dropping slow client", zap.String("conn", c.id), zap.String("event", event))
		c.close()
	}
}

func (s *Server) emitTo(id, event string, data any) {
	if c, ok := s.clients[id]; ok {
		s.emit(c, event, data)
	}
}

// broadcast sends to every client whose activity is a.
func (s *Server) broadcast(a Activity, event string, data any) {
	for _, c := range s.clients {
		if c.activity == a {
			s.emit(c, event, data)
		}
	}
}

func (s *Server) after(d time.Duration, f func()) Timer {
	return s.sched.AfterFunc(d, f)
}

// reap ends game sessions nobody has touched for SessionTimeout.
func (s *Server) reap() {
	now := s.now()
	for _, g := range s.rounds {
		g.expire(now, s.opts.SessionTimeout)
	}
	s.pacman.expire(now, s.opts.SessionTimeout)
}
