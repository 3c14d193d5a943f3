package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Booking failures are returned as typed values so that the HTTP layer can
// translate each kind into its own status code and name the offending
// seats. None of them are infrastructure faults.

var (
	ErrEmptySeatRequest = errors.New("seats list cannot be empty")
	ErrFlightNotFound   = errors.New("flight not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// DuplicateSeatError is returned when the same coordinate appears more
// than once in a single booking request.
type DuplicateSeatError struct {
	Seats []SeatCoordinate
}

func (e *DuplicateSeatError) Error() string {
	return fmt.Sprintf("duplicate seats in request: %s", formatSeats(e.Seats))
}

// SeatOutOfRangeError is returned when requested coordinates fall outside
// the airplane's grid. All offending coordinates are reported.
type SeatOutOfRangeError struct {
	Seats       []SeatCoordinate
	Rows        int
	SeatsPerRow int
}

func (e *SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("seats %s are out of range for a %dx%d airplane", formatSeats(e.Seats), e.Rows, e.SeatsPerRow)
}

// SeatsTakenError is returned when requested seats are already booked.
// Seats lists every conflicting coordinate sorted by (row, seat) when the
// conflict was found by the pre-check; it is empty when the conflict
// surfaced as a unique-constraint violation at commit, where the winning
// transaction's seats are unknown.
type SeatsTakenError struct {
	Seats []SeatCoordinate
}

func (e *SeatsTakenError) Error() string {
	if len(e.Seats) == 0 {
		return "one or more seats are already taken"
	}
	return fmt.Sprintf("seats already taken: %s", formatSeats(e.Seats))
}

func formatSeats(seats []SeatCoordinate) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
