package domain

import "time"

type Airplane struct {
	ID          int64
	Name        string
	Rows        int
	SeatsPerRow int
}

// Capacity is the total number of seats on the airplane.
func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsPerRow
}

type Flight struct {
	ID            int64
	FromAirport   string
	ToAirport     string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Airplane      Airplane
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Grid returns the seat grid of the flight's assigned airplane. Airplane
// dimensions are immutable once a flight is scheduled, so the grid can be
// read without any coordination.
func (f Flight) Grid() SeatGrid {
	return SeatGrid{Rows: f.Airplane.Rows, SeatsPerRow: f.Airplane.SeatsPerRow}
}
