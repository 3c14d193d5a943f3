package domain

import "time"

// Ticket binds one seat coordinate to exactly one flight and one order.
// For a given flight no two tickets may share a coordinate; the tickets
// table enforces this with a unique constraint on (flight_id, seat_row,
// seat_num).
type Ticket struct {
	ID       int64 `json:"id"`
	FlightID int64 `json:"flight_id"`
	OrderID  int64 `json:"order_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

func (t Ticket) Coordinate() SeatCoordinate {
	return SeatCoordinate{Row: t.Row, Seat: t.Seat}
}

// Order is created atomically together with its tickets by a single
// booking call and is never mutated afterwards.
type Order struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	UserID    int64     `json:"user_id"`
	FlightID  int64     `json:"flight_id"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   []Ticket  `json:"tickets"`
}
