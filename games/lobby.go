/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const maxNameLength = 12

// LobbyEntry is one waiting player as every lobby member sees it.
type LobbyEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Ready        bool    `json:"isReady"`
	SelectedGame *string `json:"selectedGame"`

	selectedSeq uint64
}

// Lobby holds the waiting players in join order.
type Lobby struct {
	entries map[string]*LobbyEntry
	order   []string
	seq     uint64
}

func newLobby() *Lobby {
	return &Lobby{
		entries: make(map[string]*LobbyEntry),
	}
}

func (l *Lobby) add(id, name string) {
	if _, ok := l.entries[id]; ok {
		return
	}
	l.entries[id] = &LobbyEntry{ID: id, Name: name}
	l.order = append(l.order, id)
}

func (l *Lobby) remove(id string) bool {
	if _, ok := l.entries[id]; !ok {
		return false
	}
	delete(l.entries, id)

	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	return true
}

func (l *Lobby) clear() {
	l.entries = make(map[string]*LobbyEntry)
	l.order = nil
}

func (l *Lobby) Len() int {
	return len(l.order)
}

// Roster is the current lobby projection in join order.
func (l *Lobby) Roster() []LobbyEntry {
	roster := make([]LobbyEntry, 0, len(l.order))
	for _, id := range l.order {
		roster = append(roster, *l.entries[id])
	}

	return roster
}

// Names lists the display names in join order.
func (l *Lobby) Names() []string {
	names := make([]string, 0, len(l.order))
	for _, id := range l.order {
		names = append(names, l.entries[id].Name)
	}

	return names
}

// nameTaken reports whether someone other than id already uses name.
func (l *Lobby) nameTaken(id, name string) bool {
	for _, e := range l.entries {
		if e.ID != id && strings.EqualFold(e.Name, name) {
			return true
		}
	}

	return false
}

func (l *Lobby) AllReady() bool {
	if len(l.entries) == 0 {
		return false
	}
	for _, e := range l.entries {
		if !e.Ready {
			return false
		}
	}

	return true
}

func (l *Lobby) selectGame(id, title string) {
	e, ok := l.entries[id]
	if !ok {
		return
	}

	if a, known := activityForTitle(title); known {
		for _, t := range titles {
			if t.activity == a {
				title = t.title
				break
			}
		}
	}

	l.seq++
	e.SelectedGame = &title
	e.selectedSeq = l.seq
}

// MajorityGame returns the title with the most votes. Players who picked
// nothing are not counted. Among tied titles, the one whose earliest
// standing selection came first wins. With no votes at all the lobby plays
// Fictionary.
func (l *Lobby) MajorityGame() string {
	counts := make(map[string]int)
	first := make(map[string]uint64)

	for _, e := range l.entries {
		if e.SelectedGame == nil {
			continue
		}
		title := *e.SelectedGame
		counts[title]++
		if seq, ok := first[title]; !ok || e.selectedSeq < seq {
			first[title] = e.selectedSeq
		}
	}

	best := ""
	for title, n := range counts {
		switch {
		case best == "":
			best = title
		case n > counts[best]:
			best = title
		case n == counts[best] && first[title] < first[best]:
			best = title
		}
	}

	if best == "" {
		return TitleFictionary
	}

	return best
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxNameLength {
		return "", ErrNameInvalid
	}

	return name, nil
}

func (s *Server) setName(c *Client, name string) error {
	name, err := validName(name)
	if err != nil {
		return err
	}

	if c.activity == ActivityLobby && s.lobby.nameTaken(c.id, name) {
		return ErrNameTaken
	}

	c.name = name

	if e, ok := s.lobby.entries[c.id]; ok {
		e.Name = name
		s.broadcastLobby()
	}

	return nil
}

func (s *Server) joinLobby(c *Client) error {
	switch {
	case c.activity == ActivityLobby:
		return ErrAlreadyInLobby
	case c.name == "":
		return ErrNameUnset
	case s.lobby.nameTaken(c.id, c.name):
		return ErrNameTaken
	}

	s.moveTo(c, ActivityLobby)
	s.lobby.add(c.id, c.name)

	s.log.Debug("player joined lobby", zap.String("conn", c.id), zap.String("player", c.name))

	s.emit(c, EventLobbyJoined, s.lobby.Roster())
	s.broadcastLobby()

	return nil
}

func (s *Server) toggleReady(c *Client) error {
	e, ok := s.lobby.entries[c.id]
	if !ok || c.activity != ActivityLobby {
		return ErrNotInLobby
	}

	e.Ready = !e.Ready
	s.broadcastLobby()

	return nil
}

func (s *Server) selectGame(c *Client, title string) error {
	if c.activity != ActivityLobby {
		return ErrNotInLobby
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return ErrGameUnknown
	}

	s.lobby.selectGame(c.id, title)
	s.broadcastLobby()

	return nil
}

// requestStart hands the lobby over to the game it voted for. The whole
// transition runs inside one run-loop turn, so nobody can slip into the lobby
// halfway through.
func (s *Server) requestStart(c *Client) error {
	switch {
	case c.activity != ActivityLobby:
		return ErrNotInLobby
	case s.lobby.Len() == 0:
		return ErrEmptyLobby
	case !s.lobby.AllReady():
		return ErrNotAllReady
	}

	title := s.lobby.MajorityGame()

	a, ok := activityForTitle(title)
	if !ok {
		s.log.Warn("lobby picked an unknown game", zap.String("game", title))
		s.broadcast(ActivityLobby, EventGameStarting, map[string]string{"game": title})

		return nil
	}

	names := s.lobby.Names()
	ids := s.lobby.order

	s.log.Info("starting game",
		zap.String("game", title),
		zap.Strings("players", names),
	)

	s.broadcast(ActivityLobby, transitionEvent(a), map[string]string{"game": title})
	s.lobby.clear()

	if a == ActivitySprites {
		s.sprites.adopt(ids)
		return nil
	}

	// Everyone else reconnects from the game page and is seated by name.
	for _, id := range ids {
		if member, ok := s.clients[id]; ok {
			member.activity = ActivityNone
		}
	}

	switch a {
	case ActivityFakinIt, ActivityFictionary, ActivityScriptionary:
		s.rounds[a].Start(names)
	case ActivityPacMan:
		s.pacman.Start(names)
	}

	return nil
}

// leaveLobby runs after the client has already been detached from the room.
func (s *Server) leaveLobby(c *Client) {
	if s.lobby.remove(c.id) {
		s.broadcastLobby()
	}
}

func (s *Server) broadcastLobby() {
	s.broadcast(ActivityLobby, EventLobbyUpdate, s.lobby.Roster())
}
