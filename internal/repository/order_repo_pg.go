package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlukyanov/airticket/internal/domain"
)

// uniqueViolation is the postgres error code raised when an insert hits
// the UNIQUE (flight_id, seat_row, seat_num) constraint on tickets.
const uniqueViolation = "23505"

type OrderRepository interface {
	// OccupiedSeats returns every booked coordinate on the flight.
	OccupiedSeats(ctx context.Context, flightID int64) ([]domain.SeatCoordinate, error)
	// OccupiedSeatsInRows is the targeted variant used by the booking
	// pre-check; it only scans the rows the request touches.
	OccupiedSeatsInRows(ctx context.Context, flightID int64, rows []int) ([]domain.SeatCoordinate, error)
	// Create inserts the order and all its tickets in one transaction.
	// A unique-constraint violation on tickets rolls everything back and
	// is reported as *domain.SeatsTakenError.
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetByIDForUser(ctx context.Context, orderID, userID int64) (*domain.Order, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) OccupiedSeats(ctx context.Context, flightID int64) ([]domain.SeatCoordinate, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_row, seat_num FROM tickets WHERE flight_id=$1 ORDER BY seat_row, seat_num`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

func (r *PGOrderRepository) OccupiedSeatsInRows(ctx context.Context, flightID int64, seatRows []int) ([]domain.SeatCoordinate, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_row, seat_num FROM tickets WHERE flight_id=$1 AND seat_row = ANY($2) ORDER BY seat_row, seat_num`, flightID, seatRows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

func scanSeats(rows pgx.Rows) ([]domain.SeatCoordinate, error) {
	seats := make([]domain.SeatCoordinate, 0)
	for rows.Next() {
		var s domain.SeatCoordinate
		if err := rows.Scan(&s.Row, &s.Seat); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func (r *PGOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO orders (reference, user_id, flight_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, order.Reference, order.UserID, order.FlightID).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	if err := r.insertTickets(ctx, tx, order); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the race against a concurrent booking that committed
			// after our pre-check. The deferred rollback discards the
			// order row as well.
			return &domain.SeatsTakenError{}
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGOrderRepository) insertTickets(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	query := `INSERT INTO tickets (flight_id, order_id, seat_row, seat_num) VALUES `
	args := make([]interface{}, 0, len(order.Tickets)*4)
	for i := range order.Tickets {
		t := &order.Tickets[i]
		t.OrderID = order.ID
		if i > 0 {
			query += ","
		}
		n := len(args)
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, t.FlightID, t.OrderID, t.Row, t.Seat)
	}
	query += ` RETURNING id`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&order.Tickets[i].ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT id, reference, user_id, flight_id, created_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.FlightID, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Tickets = make([]domain.Ticket, 0)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	trows, err := r.db.Query(ctx, `SELECT id, flight_id, order_id, seat_row, seat_num
		FROM tickets WHERE order_id = ANY($1) ORDER BY order_id, seat_row, seat_num`, ids)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t domain.Ticket
		if err := trows.Scan(&t.ID, &t.FlightID, &t.OrderID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		if idx, ok := index[t.OrderID]; ok {
			orders[idx].Tickets = append(orders[idx].Tickets, t)
		}
	}
	return orders, trows.Err()
}

func (r *PGOrderRepository) GetByIDForUser(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT id, reference, user_id, flight_id, created_at
		FROM orders WHERE id=$1 AND user_id=$2`, orderID, userID)
	var o domain.Order
	if err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.FlightID, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	trows, err := r.db.Query(ctx, `SELECT id, flight_id, order_id, seat_row, seat_num
		FROM tickets WHERE order_id=$1 ORDER BY seat_row, seat_num`, o.ID)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	o.Tickets = make([]domain.Ticket, 0)
	for trows.Next() {
		var t domain.Ticket
		if err := trows.Scan(&t.ID, &t.FlightID, &t.OrderID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		o.Tickets = append(o.Tickets, t)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

var _ OrderRepository = (*PGOrderRepository)(nil)
