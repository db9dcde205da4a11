/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

const (
	pelletPoints = 10
	deathPenalty = 50
	startFacing  = "right"
)

// PacPlayer is one player's dot in the maze.
type PacPlayer struct {
	ID        string `json:"-"`
	Name      string `json:"name"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
	Score     int    `json:"score"`

	spawn Cell
}

func (p *PacPlayer) cell() Cell {
	return Cell{p.X, p.Y}
}

type Ghost struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
}

type pacmanState struct {
	Players map[string]PacPlayer `json:"players"`
	Pellets []Cell               `json:"pellets"`
	Ghosts  []Ghost              `json:"ghosts"`
	Maze    []Cell               `json:"maze"`
}

type pacmanMove struct {
	PlayerID  string `json:"playerId"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
}

type pacmanScore struct {
	PlayerID string `json:"playerId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Score    int    `json:"score"`
}

type pacmanPellet struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// Pac-Man events
const (
	EventPacManJoined   = "pacman_player_joined"
	EventPacManState    = "pacman_game_state"
	EventPacManUpdate   = "pacman_player_update"
	EventPacManPellet   = "pacman_pellet_collected"
	EventPacManDied     = "pacman_player_died"
	EventPacManGhosts   = "pacman_ghost_update"
	EventPacManGameOver = "pacman_game_over"
	EventPacManWaiting  = "pacman_waiting"
)

// PacManGame is the continuous maze session. It starts once every name on
// the roster has a connection and ends when the last pellet is eaten.
type PacManGame struct {
	srv  *Server
	maze *Maze

	active   bool
	started  bool
	seats    *Seating
	players  map[string]*PacPlayer // conn id -> player
	departed map[string]int
	pellets  map[Cell]bool
	ghosts   []*Ghost
	ghosting *ticker

	lastActive time.Time
}

func newPacManGame(s *Server) *PacManGame {
	return &PacManGame{
		srv:      s,
		maze:     newMaze(),
		players:  make(map[string]*PacPlayer),
		departed: make(map[string]int),
		pellets:  make(map[Cell]bool),
	}
}

func (g *PacManGame) Active() bool {
	return g.active
}

// Start resets the maze for a new roster.
func (g *PacManGame) Start(names []string) {
	g.ghosting.Stop()
	g.ghosting = nil

	g.active = true
	g.started = false
	g.seats = newSeating(names)
	g.players = make(map[string]*PacPlayer)
	g.departed = make(map[string]int)
	g.pellets = g.maze.Pellets()
	g.ghosts = []*Ghost{
		{X: 14, Y: 14, Direction: "up"},
		{X: 15, Y: 14, Direction: "right"},
		{X: 14, Y: 15, Direction: "left"},
		{X: 15, Y: 15, Direction: "down"},
	}
	g.touch()

	g.srv.log.Info("session created",
		zap.String("game", ActivityPacMan.String()),
		zap.Strings("players", names),
		zap.Int("pellets", len(g.pellets)),
	)
}

func (g *PacManGame) Join(c *Client, requested string) error {
	if !g.active {
		return ErrNoSession
	}

	if requested == "" {
		requested = c.name
	}

	name, err := g.seats.Claim(requested, c.id)
	if err != nil {
		g.srv.log.Info("no seat left",
			zap.String("game", ActivityPacMan.String()),
			zap.String("conn", c.id),
			zap.String("player", requested),
		)

		return err
	}

	g.srv.moveTo(c, ActivityPacMan)
	c.name = name

	if _, ok := g.players[c.id]; ok {
		return nil
	}

	spawn := g.maze.Spawn(g.seats.Index(c.id))
	p := &PacPlayer{
		ID:        c.id,
		Name:      name,
		X:         spawn.X,
		Y:         spawn.Y,
		Direction: startFacing,
		Score:     g.departed[name],
		spawn:     spawn,
	}
	delete(g.departed, name)
	g.players[c.id] = p
	g.touch()

	g.srv.log.Debug("player joined session",
		zap.String("game", ActivityPacMan.String()),
		zap.String("conn", c.id),
		zap.String("player", name),
		zap.Int("x", p.X),
		zap.Int("y", p.Y),
	)

	g.srv.emit(c, EventPacManJoined, map[string]string{"playerId": c.id})

	switch {
	case g.started:
		g.srv.emit(c, EventPacManState, g.state())
		g.srv.broadcast(ActivityPacMan, EventPacManUpdate, pacmanMove{
			PlayerID: p.ID, X: p.X, Y: p.Y, Direction: p.Direction,
		})
	case g.seats.Full():
		g.started = true
		g.srv.broadcast(ActivityPacMan, EventPacManState, g.state())
		g.ghosting = startTicker(g.srv.sched, g.srv.opts.GhostTick, g.tick)
	default:
		g.srv.broadcast(ActivityPacMan, EventPacManWaiting, map[string]int{
			"playerCount": g.seats.Len(),
			"expected":    g.seats.Expected(),
		})
	}

	return nil
}

// Move steps c's player one cell. A blocked move changes nothing and is not
// reported.
func (g *PacManGame) Move(c *Client, dir string) error {
	p, ok := g.players[c.id]
	switch {
	case !ok:
		return ErrNotInSession
	case !g.active || !g.started:
		return ErrWrongPhase
	}

	to, ok := g.maze.Step(p.cell(), dir)
	if !ok {
		return nil
	}

	p.X, p.Y = to.X, to.Y
	p.Direction = dir
	g.touch()

	if g.ghostAt(to) {
		p.Score = max(0, p.Score-deathPenalty)
		p.X, p.Y = p.spawn.X, p.spawn.Y

		g.srv.broadcast(ActivityPacMan, EventPacManDied, pacmanScore{
			PlayerID: p.ID, X: p.X, Y: p.Y, Score: p.Score,
		})
	}

	if g.pellets[to] {
		delete(g.pellets, to)
		p.Score += pelletPoints

		g.srv.broadcast(ActivityPacMan, EventPacManPellet, pacmanPellet{
			X: to.X, Y: to.Y, PlayerID: p.ID, Score: p.Score,
		})
	}

	g.srv.broadcast(ActivityPacMan, EventPacManUpdate, pacmanMove{
		PlayerID: p.ID, X: p.X, Y: p.Y, Direction: p.Direction,
	})

	if len(g.pellets) == 0 {
		g.end()
	}

	return nil
}

func (g *PacManGame) ghostAt(c Cell) bool {
	for _, gh := range g.ghosts {
		if gh.X == c.X && gh.Y == c.Y {
			return true
		}
	}

	return false
}

// tick moves every ghost to a random open neighbor.
func (g *PacManGame) tick() {
	if !g.active {
		return
	}

	for _, gh := range g.ghosts {
		exits := g.maze.Exits(Cell{gh.X, gh.Y})
		if len(exits) == 0 {
			continue
		}
		dir := exits[g.srv.rng.IntN(len(exits))]
		d := directions[dir]
		gh.X += d.X
		gh.Y += d.Y
		gh.Direction = dir
	}

	g.srv.broadcast(ActivityPacMan, EventPacManGhosts, map[string]any{"ghosts": g.ghostSnapshot()})
}

func (g *PacManGame) end() {
	if !g.active {
		return
	}

	g.ghosting.Stop()
	g.ghosting = nil
	g.active = false
	g.started = false

	standings := g.Standings()

	g.srv.log.Info("session ended",
		zap.String("game", ActivityPacMan.String()),
		zap.Int("pellets", len(g.pellets)),
	)

	g.srv.broadcast(ActivityPacMan, EventPacManGameOver, map[string]any{"scores": standings})

	for id := range g.players {
		if c, ok := g.srv.clients[id]; ok && c.activity == ActivityPacMan {
			c.activity = ActivityNone
		}
	}
	g.players = make(map[string]*PacPlayer)
}

// Standings are the seated players by score, highest first, roster order
// on ties.
func (g *PacManGame) Standings() []Standing {
	var players []*PacPlayer
	for _, id := range g.seats.Order() {
		if p, ok := g.players[id]; ok {
			players = append(players, p)
		}
	}
	slices.SortStableFunc(players, func(a, b *PacPlayer) int {
		return b.Score - a.Score
	})

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{Name: p.Name, Score: p.Score})
	}

	return standings
}

func (g *PacManGame) state() pacmanState {
	pellets := make([]Cell, 0, len(g.pellets))
	for c := range g.pellets {
		pellets = append(pellets, c)
	}
	slices.SortFunc(pellets, func(a, b Cell) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Y - b.Y
	})

	players := make(map[string]PacPlayer, len(g.players))
	for id, p := range g.players {
		players[id] = *p
	}

	return pacmanState{
		Players: players,
		Pellets: pellets,
		Ghosts:  g.ghostSnapshot(),
		Maze:    g.maze.Walls(),
	}
}

// ghostSnapshot copies the ghosts; payloads are encoded off the run loop.
func (g *PacManGame) ghostSnapshot() []Ghost {
	ghosts := make([]Ghost, 0, len(g.ghosts))
	for _, gh := range g.ghosts {
		ghosts = append(ghosts, *gh)
	}

	return ghosts
}

// leave runs after c has been detached from the room. The rest of the
// table keeps playing; an empty running game ends.
func (g *PacManGame) leave(c *Client) {
	p, ok := g.players[c.id]
	if !ok {
		return
	}

	delete(g.players, c.id)
	g.seats.Release(c.id)
	g.departed[p.Name] = p.Score
	g.touch()

	g.srv.log.Debug("player left session",
		zap.String("game", ActivityPacMan.String()),
		zap.String("conn", c.id),
		zap.String("player", p.Name),
	)

	if g.started && len(g.players) == 0 {
		g.end()
	}
}

func (g *PacManGame) expire(now time.Time, timeout time.Duration) {
	if !g.active || now.Sub(g.lastActive) <= timeout {
		return
	}

	g.srv.log.Info("reaping idle session", zap.String("game", ActivityPacMan.String()))
	g.end()
}

func (g *PacManGame) touch() {
	g.lastActive = g.srv.now()
}
