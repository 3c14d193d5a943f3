package domain

import (
	"fmt"
	"sort"
)

// SeatCoordinate identifies a single seat on a flight by its row and the
// seat number within that row. Both are 1-based.
type SeatCoordinate struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

func (c SeatCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Seat)
}

// Less orders coordinates by row first, then by seat within the row.
func (c SeatCoordinate) Less(other SeatCoordinate) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Seat < other.Seat
}

// SortSeats sorts coordinates in place by (row, seat) so that reports and
// responses are deterministic for identical input state.
func SortSeats(seats []SeatCoordinate) {
	sort.Slice(seats, func(i, j int) bool {
		return seats[i].Less(seats[j])
	})
}

// SeatGrid describes the seat layout of an airplane: rows numbered
// 1..Rows, each holding seats numbered 1..SeatsPerRow.
type SeatGrid struct {
	Rows        int
	SeatsPerRow int
}

// Contains reports whether the coordinate falls inside the grid.
func (g SeatGrid) Contains(c SeatCoordinate) bool {
	return c.Row >= 1 && c.Row <= g.Rows && c.Seat >= 1 && c.Seat <= g.SeatsPerRow
}

func (g SeatGrid) Capacity() int {
	return g.Rows * g.SeatsPerRow
}

// SeatMapCell is one seat in a rendered seat map.
type SeatMapCell struct {
	Num   int  `json:"num"`
	Taken bool `json:"taken"`
}

// SeatMapRow is one row of a rendered seat map, seats ordered ascending.
type SeatMapRow struct {
	Row   int           `json:"row"`
	Seats []SeatMapCell `json:"seats"`
}

// SeatMap is the full occupancy projection for a flight. Rows are ordered
// ascending, seats ascending within each row.
type SeatMap struct {
	FlightID         int64        `json:"flight"`
	Rows             int          `json:"rows"`
	SeatsPerRow      int          `json:"seats_per_row"`
	AvailableTickets int          `json:"available_tickets"`
	Map              []SeatMapRow `json:"map"`
}
