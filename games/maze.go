/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

const mazeWidth = 30

// 1 = wall
var mazePattern = [...]string{
	"111111111111111111111111111111",
	"100000000000001100000000000001",
	"101110111110001100111110111101",
	"101110111110001100111110111101",
	"100000000000000000000000000001",
	"101110110111111111110110111101",
	"100000110000001100000110000001",
	"111110111110001100111110111111",
	"000010000010001100100000100000",
	"111110111110111111110111110111",
	"100000100000000000000100000001",
	"101110101111101011111010111101",
	"100010000000101010000000100001",
	"111010111100101010011110101111",
	"000000100000000000000010000000",
	"111010111100101010011110101111",
	"100010000000101010000000100001",
	"101110101111101011111010111101",
	"100000100000000000000100000001",
	"111110111110111111110111110111",
	"000010000010001100100000100000",
	"111110111110001100111110111111",
	"100000110000001100000110000001",
	"101110110111111111110110111101",
	"100000000000000000000000000001",
	"101110111110001100111110111101",
	"101110111110001100111110111101",
	"100000000000001100000000000001",
	"111111111111111111111111111111",
}

var mazeHeight = len(mazePattern)

// Rows whose ends connect to each other.
var wrapRows = map[int]bool{8: true, 14: true, 20: true}

var corners = [...]Cell{{2, 2}, {27, 2}, {2, 27}, {27, 27}}

// Cell is a maze coordinate; x is the column, y the row.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Maze is the static wall layout shared by every Pac-Man session.
type Maze struct {
	walls map[Cell]bool
}

func newMaze() *Maze {
	m := &Maze{walls: make(map[Cell]bool)}
	for y, row := range mazePattern {
		for x, ch := range row {
			if ch == '1' {
				m.walls[Cell{x, y}] = true
			}
		}
	}

	return m
}

// Walls lists the wall cells row by row.
func (m *Maze) Walls() []Cell {
	walls := make([]Cell, 0, len(m.walls))
	for y, row := range mazePattern {
		for x := range len(row) {
			if m.walls[Cell{x, y}] {
				walls = append(walls, Cell{x, y})
			}
		}
	}

	return walls
}

func inBounds(c Cell) bool {
	return c.X >= 0 && c.X < mazeWidth && c.Y >= 0 && c.Y < mazeHeight
}

// Blocked reports whether c is a wall or off the board.
func (m *Maze) Blocked(c Cell) bool {
	return !inBounds(c) || m.walls[c]
}

var compass = [...]string{"up", "down", "left", "right"}

var directions = map[string]Cell{
	"up":    {0, -1},
	"down":  {0, 1},
	"left":  {-1, 0},
	"right": {1, 0},
}

// Step moves one cell in dir, wrapping around the ends of the wrap rows.
// The second result is false when the destination is blocked.
func (m *Maze) Step(from Cell, dir string) (Cell, bool) {
	d, ok := directions[dir]
	if !ok {
		return from, false
	}

	to := Cell{from.X + d.X, from.Y + d.Y}
	if wrapRows[to.Y] {
		switch {
		case to.X < 0:
			to.X = mazeWidth - 1
		case to.X >= mazeWidth:
			to.X = 0
		}
	}

	if m.Blocked(to) {
		return from, false
	}

	return to, true
}

// Pellets returns the starting pellet set: every open interior cell that
// is not next to a spawn corner.
func (m *Maze) Pellets() map[Cell]bool {
	pellets := make(map[Cell]bool)
	for x := 1; x < mazeWidth-1; x++ {
		for y := 1; y < mazeHeight-1; y++ {
			c := Cell{x, y}
			if m.walls[c] || nearCorner(c) {
				continue
			}
			pellets[c] = true
		}
	}

	return pellets
}

func nearCorner(c Cell) bool {
	for _, k := range corners {
		if abs(k.X-c.X) <= 1 && abs(k.Y-c.Y) <= 1 {
			return true
		}
	}

	return false
}

// Spawn is the open cell closest to the corner assigned to seat, searching
// outward ring by ring.
func (m *Maze) Spawn(seat int) Cell {
	corner := corners[seat%len(corners)]
	if !m.Blocked(corner) {
		return corner
	}

	for r := 1; r < mazeWidth; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				c := Cell{corner.X + dx, corner.Y + dy}
				if !m.Blocked(c) {
					return c
				}
			}
		}
	}

	return corner
}

// Exits lists the directions leading from c to an open cell. Ghosts use
// it and never wrap.
func (m *Maze) Exits(c Cell) []string {
	var open []string
	for _, dir := range compass {
		d := directions[dir]
		if !m.Blocked(Cell{c.X + d.X, c.Y + d.Y}) {
			open = append(open, dir)
		}
	}

	return open
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
