/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "slices"

// Seating maps the names captured at lobby handoff onto whatever connection
// currently plays them. Connection ids change whenever a browser navigates,
// names do not.
type Seating struct {
	names  []string
	byName map[string]string // name -> conn id
	byConn map[string]string // conn id -> name
}

func newSeating(names []string) *Seating {
	return &Seating{
		names:  slices.Clone(names),
		byName: make(map[string]string, len(names)),
		byConn: make(map[string]string, len(names)),
	}
}

// Claim seats connID. A requested name wins when it is expected and free,
// otherwise the first free name in roster order is used.
func (s *Seating) Claim(requested, connID string) (string, error) {
	if name, ok := s.byConn[connID]; ok {
		return name, nil
	}

	name := ""
	if requested != "" && slices.Contains(s.names, requested) && s.byName[requested] == "" {
		name = requested
	}
	if name == "" {
		for _, n := range s.names {
			if s.byName[n] == "" {
				name = n
				break
			}
		}
	}
	if name == "" {
		return "", ErrSessionFull
	}

	s.byName[name] = connID
	s.byConn[connID] = name

	return name, nil
}

// Release frees the seat held by connID.
func (s *Seating) Release(connID string) (string, bool) {
	name, ok := s.byConn[connID]
	if !ok {
		return "", false
	}
	delete(s.byConn, connID)
	delete(s.byName, name)

	return name, true
}

func (s *Seating) Seated(connID string) bool {
	_, ok := s.byConn[connID]
	return ok
}

func (s *Seating) Len() int {
	return len(s.byConn)
}

func (s *Seating) Expected() int {
	return len(s.names)
}

func (s *Seating) Full() bool {
	return len(s.byConn) == len(s.names)
}

// Order lists seated connection ids in roster order.
func (s *Seating) Order() []string {
	ids := make([]string, 0, len(s.byConn))
	for _, n := range s.names {
		if id := s.byName[n]; id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}

// Index is the roster position of the name held by connID, or -1.
func (s *Seating) Index(connID string) int {
	name, ok := s.byConn[connID]
	if !ok {
		return -1
	}

	return slices.Index(s.names, name)
}
