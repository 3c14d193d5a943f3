package booking

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/mlukyanov/airticket/internal/kafka"
	"github.com/mlukyanov/airticket/internal/repository"
)

type BookingUseCase interface {
	Book(ctx context.Context, input BookSeatsInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID int64) (*domain.Order, error)
}

// Cache is the slice of the cache the engine needs: dropping a flight's
// seat map after a booking commits.
type Cache interface {
	InvalidateSeatMap(ctx context.Context, flightID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService is the sole writer of ticket rows. Requests race only
// through the backing store: the validation steps in Book are an
// optimistic pre-check that produces precise per-seat errors, and the
// unique constraint on (flight_id, seat_row, seat_num) is the backstop
// that keeps the outcome correct when two bookings overlap between the
// pre-check and commit.
type BookingService struct {
	orders             repository.OrderRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	ordersTopic        string
	notificationsTopic string
}

type BookSeatsInput struct {
	UserID   int64
	FlightID int64
	Seats    []domain.SeatCoordinate
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	orders repository.OrderRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	ordersTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		orders:      orders,
		flights:     flights,
		cache:       cache,
		producer:    producer,
		ordersTopic: ordersTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book reserves the requested seats on a flight, creating the order and
// its tickets atomically. On any failure nothing is persisted; the caller
// decides whether to retry with a different seat set.
func (s *BookingService) Book(ctx context.Context, input BookSeatsInput) (*domain.Order, error) {
	if len(input.Seats) == 0 {
		return nil, domain.ErrEmptySeatRequest
	}

	requested, duplicates := dedupeSeats(input.Seats)
	if len(duplicates) > 0 {
		return nil, &domain.DuplicateSeatError{Seats: duplicates}
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	grid := flight.Grid()
	var outOfRange []domain.SeatCoordinate
	for _, seat := range requested {
		if !grid.Contains(seat) {
			outOfRange = append(outOfRange, seat)
		}
	}
	if len(outOfRange) > 0 {
		domain.SortSeats(outOfRange)
		return nil, &domain.SeatOutOfRangeError{Seats: outOfRange, Rows: grid.Rows, SeatsPerRow: grid.SeatsPerRow}
	}

	if taken, err := s.conflictingSeats(ctx, input.FlightID, requested); err != nil {
		return nil, err
	} else if len(taken) > 0 {
		return nil, &domain.SeatsTakenError{Seats: taken}
	}

	order := &domain.Order{
		Reference: uuid.NewString(),
		UserID:    input.UserID,
		FlightID:  input.FlightID,
		Tickets:   make([]domain.Ticket, 0, len(requested)),
	}
	domain.SortSeats(requested)
	for _, seat := range requested {
		order.Tickets = append(order.Tickets, domain.Ticket{
			FlightID: input.FlightID,
			Row:      seat.Row,
			Seat:     seat.Seat,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateSeatMap(ctx, input.FlightID)
	}
	if err := s.publish(ctx, "order_created", order); err != nil {
		log.Printf("WARNING: failed to publish order_created for order %s: %v", order.Reference, err)
	}
	return order, nil
}

func (s *BookingService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *BookingService) GetOrder(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	return s.orders.GetByIDForUser(ctx, orderID, userID)
}

// conflictingSeats intersects the request with the committed occupancy of
// the rows it touches. The result is sorted by (row, seat).
func (s *BookingService) conflictingSeats(ctx context.Context, flightID int64, requested []domain.SeatCoordinate) ([]domain.SeatCoordinate, error) {
	rows := make([]int, 0, len(requested))
	seen := make(map[int]struct{}, len(requested))
	for _, seat := range requested {
		if _, ok := seen[seat.Row]; !ok {
			seen[seat.Row] = struct{}{}
			rows = append(rows, seat.Row)
		}
	}

	occupied, err := s.orders.OccupiedSeatsInRows(ctx, flightID, rows)
	if err != nil {
		return nil, err
	}
	taken := make(map[domain.SeatCoordinate]struct{}, len(occupied))
	for _, seat := range occupied {
		taken[seat] = struct{}{}
	}

	var conflicts []domain.SeatCoordinate
	for _, seat := range requested {
		if _, ok := taken[seat]; ok {
			conflicts = append(conflicts, seat)
		}
	}
	domain.SortSeats(conflicts)
	return conflicts, nil
}

// dedupeSeats reduces the request to a set and reports every coordinate
// that appeared more than once, sorted by (row, seat).
func dedupeSeats(seats []domain.SeatCoordinate) (unique, duplicates []domain.SeatCoordinate) {
	seen := make(map[domain.SeatCoordinate]int, len(seats))
	for _, seat := range seats {
		seen[seat]++
		if seen[seat] == 1 {
			unique = append(unique, seat)
		} else if seen[seat] == 2 {
			duplicates = append(duplicates, seat)
		}
	}
	domain.SortSeats(duplicates)
	return unique, duplicates
}

func (s *BookingService) publish(ctx context.Context, eventType string, order *domain.Order) error {
	if s.producer == nil || s.ordersTopic == "" {
		return nil
	}
	seats := make([]domain.SeatCoordinate, 0, len(order.Tickets))
	for _, t := range order.Tickets {
		seats = append(seats, t.Coordinate())
	}
	event := kafka.OrderEvent{
		Type:      eventType,
		Reference: order.Reference,
		UserID:    order.UserID,
		FlightID:  order.FlightID,
		Seats:     seats,
		CreatedAt: order.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.ordersTopic, order.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, order.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
