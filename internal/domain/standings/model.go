package standings

import "math"

// PlayerStanding accumulates one player's statistics across a competition's
// completed matches. Points and points-per-game are derived, never stored.
type PlayerStanding struct {
	PlayerID       int
	Name           string
	Team           string
	Age            int
	BirthYear      int
	Matches        int
	Goals          int
	Assists        int
	PenaltyMinutes int
}

func (p PlayerStanding) Points() int {
	return p.Goals + p.Assists
}

func (p PlayerStanding) PointsPerGame() float64 {
	if p.Matches <= 0 {
		return 0
	}
	return math.Round(float64(p.Points())/float64(p.Matches)*100) / 100
}

// Table is an insertion-ordered accumulation of player standings keyed by
// player id. Rows are created lazily on first encounter and mutated in place
// as lineups, events and profiles are folded in.
type Table struct {
	rows  map[int]*PlayerStanding
	order []int
}

func NewTable() *Table {
	return &Table{
		rows: make(map[int]*PlayerStanding, 64),
	}
}

// Ensure returns the row for playerID, creating it with the given name and
// team when the player has not been seen before.
func (t *Table) Ensure(playerID int, name, team string) *PlayerStanding {
	if row, ok := t.rows[playerID]; ok {
		return row
	}

	row := &PlayerStanding{
		PlayerID: playerID,
		Name:     name,
		Team:     team,
	}
	t.rows[playerID] = row
	t.order = append(t.order, playerID)
	return row
}

func (t *Table) Len() int {
	return len(t.order)
}

// PlayerIDs returns the accumulated player ids in first-encounter order.
func (t *Table) PlayerIDs() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// Get returns the row for playerID without creating it.
func (t *Table) Get(playerID int) (*PlayerStanding, bool) {
	row, ok := t.rows[playerID]
	return row, ok
}

// Rows snapshots the table in first-encounter order.
func (t *Table) Rows() []PlayerStanding {
	out := make([]PlayerStanding, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.rows[id])
	}
	return out
}
