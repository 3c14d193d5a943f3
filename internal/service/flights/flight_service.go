package flights

import (
	"context"

	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/mlukyanov/airticket/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*FlightDetail, error)
	SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
}

// SeatReader is the read-only view of the ticket collection the projector
// needs. It never blocks writers; the snapshot it observes is "latest
// committed" and may be stale relative to in-flight bookings.
type SeatReader interface {
	OccupiedSeats(ctx context.Context, flightID int64) ([]domain.SeatCoordinate, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
	SetSeatMap(ctx context.Context, sm *domain.SeatMap) error
	InvalidateSeatMap(ctx context.Context, flightID int64) error
}

type FlightService struct {
	repo  repository.FlightRepository
	seats SeatReader
	cache Cache
}

// FlightDetail is the flight plus the occupancy summary shown on the
// detail endpoint.
type FlightDetail struct {
	domain.Flight
	Capacity   int
	TakenSeats int
}

func NewFlightService(repo repository.FlightRepository, seats SeatReader, cache Cache) *FlightService {
	return &FlightService{repo: repo, seats: seats, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*FlightDetail, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	occupied, err := s.seats.OccupiedSeats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FlightDetail{
		Flight:     *flight,
		Capacity:   flight.Airplane.Capacity(),
		TakenSeats: len(occupied),
	}, nil
}

// SeatMap projects the current occupancy of a flight onto its seat grid.
// Rows ascend, seats ascend within a row, so identical committed state
// always renders identically.
func (s *FlightService) SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSeatMap(ctx, flightID); err == nil && cached != nil {
			return cached, nil
		}
	}

	flight, err := s.repo.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.seats.OccupiedSeats(ctx, flightID)
	if err != nil {
		return nil, err
	}

	sm := buildSeatMap(flight, occupied)
	if s.cache != nil {
		_ = s.cache.SetSeatMap(ctx, sm)
	}
	return sm, nil
}

func buildSeatMap(flight *domain.Flight, occupied []domain.SeatCoordinate) *domain.SeatMap {
	grid := flight.Grid()
	taken := make(map[domain.SeatCoordinate]struct{}, len(occupied))
	for _, s := range occupied {
		taken[s] = struct{}{}
	}

	seatRows := make([]domain.SeatMapRow, 0, grid.Rows)
	for row := 1; row <= grid.Rows; row++ {
		cells := make([]domain.SeatMapCell, 0, grid.SeatsPerRow)
		for seat := 1; seat <= grid.SeatsPerRow; seat++ {
			_, ok := taken[domain.SeatCoordinate{Row: row, Seat: seat}]
			cells = append(cells, domain.SeatMapCell{Num: seat, Taken: ok})
		}
		seatRows = append(seatRows, domain.SeatMapRow{Row: row, Seats: cells})
	}

	return &domain.SeatMap{
		FlightID:         flight.ID,
		Rows:             grid.Rows,
		SeatsPerRow:      grid.SeatsPerRow,
		AvailableTickets: grid.Capacity() - len(taken),
		Map:              seatRows,
	}
}

var _ FlightUseCase = (*FlightService)(nil)
