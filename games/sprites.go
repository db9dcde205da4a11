/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

const spriteSpeed = 2

// Sprite is one player's square in the movement demo.
type Sprite struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SpriteGame is the free movement demo. Positions go out on a fixed tick
// for as long as anyone is in the room.
type SpriteGame struct {
	srv     *Server
	sprites map[string]*Sprite
	ticking *ticker
}

func newSpriteGame(s *Server) *SpriteGame {
	return &SpriteGame{
		srv:     s,
		sprites: make(map[string]*Sprite),
	}
}

func (g *SpriteGame) spawn(c *Client) {
	name := c.name
	if name == "" {
		name = "Player"
	}

	g.sprites[c.id] = &Sprite{
		ID:   c.id,
		Name: name,
		X:    200 + g.srv.rng.Float64()*200,
		Y:    150 + g.srv.rng.Float64()*100,
	}
}

// adopt places every client handed over by the lobby into the demo.
func (g *SpriteGame) adopt(ids []string) {
	for _, id := range ids {
		c, ok := g.srv.clients[id]
		if !ok {
			continue
		}
		c.activity = ActivitySprites
		if _, ok := g.sprites[id]; !ok {
			g.spawn(c)
		}
	}

	g.run()
}

// Join attaches c to the demo, creating its sprite on first use.
func (g *SpriteGame) Join(c *Client) error {
	g.srv.moveTo(c, ActivitySprites)

	if _, ok := g.sprites[c.id]; ok {
		g.srv.log.Debug("player rejoined sprites", zap.String("conn", c.id), zap.String("player", c.name))
	} else {
		g.spawn(c)
		g.srv.log.Debug("player joined sprites", zap.String("conn", c.id), zap.String("player", c.name))
	}

	g.srv.emit(c, EventJoinGameSuccess, nil)
	g.run()

	return nil
}

// Move nudges c's sprite along axis ("x" or "y") by force (-1 or 1).
func (g *SpriteGame) Move(c *Client, axis string, force int) error {
	sp, ok := g.sprites[c.id]
	if !ok || c.activity != ActivitySprites {
		return ErrNotInSession
	}

	delta := float64(force * spriteSpeed)
	switch axis {
	case "x":
		sp.X += delta
	case "y":
		sp.Y += delta
	}

	return nil
}

func (g *SpriteGame) run() {
	if g.ticking == nil && len(g.sprites) > 0 {
		g.ticking = startTicker(g.srv.sched, g.srv.opts.SpriteTick, g.tick)
	}
}

func (g *SpriteGame) tick() {
	if len(g.sprites) == 0 {
		g.ticking.Stop()
		g.ticking = nil
		return
	}

	g.srv.broadcast(ActivitySprites, EventStateUpdate, g.Snapshot())
}

// Snapshot lists every sprite ordered by id.
func (g *SpriteGame) Snapshot() []Sprite {
	sprites := make([]Sprite, 0, len(g.sprites))
	for _, sp := range g.sprites {
		sprites = append(sprites, *sp)
	}
	slices.SortFunc(sprites, func(a, b Sprite) int {
		return strings.Compare(a.ID, b.ID)
	})

	return sprites
}

// leave runs after c has been detached from the room.
func (g *SpriteGame) leave(c *Client) {
	if _, ok := g.sprites[c.id]; !ok {
		return
	}
	delete(g.sprites, c.id)

	g.srv.broadcast(ActivitySprites, EventRemovePlayer, map[string]string{"id": c.id})
}
