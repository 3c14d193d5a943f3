package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/mlukyanov/airticket/internal/ratelimit"
	"github.com/mlukyanov/airticket/internal/service/booking"
)

// userIDHeader carries the authenticated user identity, set by the
// upstream gateway. The API trusts it as-is; authentication itself
// happens before requests reach this service.
const userIDHeader = "X-User-ID"

type OrderHandler struct {
	service booking.BookingUseCase
	limiter *ratelimit.KeyedLimiter
}

type seatRequest struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type createOrderRequest struct {
	FlightID int64         `json:"flight_id"`
	Seats    []seatRequest `json:"seats"`
}

type ticketResponse struct {
	ID   int64 `json:"id"`
	Row  int   `json:"row"`
	Seat int   `json:"seat"`
}

type orderResponse struct {
	ID        int64            `json:"id"`
	Reference string           `json:"reference"`
	FlightID  int64            `json:"flight_id"`
	CreatedAt string           `json:"created_at"`
	Tickets   []ticketResponse `json:"tickets"`
}

func NewOrderHandler(service booking.BookingUseCase, limiter *ratelimit.KeyedLimiter) *OrderHandler {
	return &OrderHandler{service: service, limiter: limiter}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *OrderHandler) create(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	if h.limiter != nil && !h.limiter.Allow(strconv.FormatInt(userID, 10)) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many booking requests"})
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seats := make([]domain.SeatCoordinate, 0, len(req.Seats))
	for _, s := range req.Seats {
		seats = append(seats, domain.SeatCoordinate{Row: s.Row, Seat: s.Seat})
	}

	order, err := h.service.Book(c.Request.Context(), booking.BookSeatsInput{
		UserID:   userID,
		FlightID: req.FlightID,
		Seats:    seats,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) list(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	orders, err := h.service.ListOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) get(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// respondBookingError translates the booking error taxonomy into HTTP
// statuses: validation problems are 400, seat conflicts 409, a missing
// flight 404. Anything else is a store fault.
func respondBookingError(c *gin.Context, err error) {
	var (
		dup        *domain.DuplicateSeatError
		outOfRange *domain.SeatOutOfRangeError
		taken      *domain.SeatsTakenError
	)
	switch {
	case errors.Is(err, domain.ErrEmptySeatRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &dup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "seats": dup.Seats})
	case errors.As(err, &outOfRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         err.Error(),
			"seats":         outOfRange.Seats,
			"rows":          outOfRange.Rows,
			"seats_per_row": outOfRange.SeatsPerRow,
		})
	case errors.As(err, &taken):
		body := gin.H{"error": err.Error()}
		if len(taken.Seats) > 0 {
			body["seats"] = taken.Seats
		}
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, domain.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("booking failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func userIDFrom(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(userIDHeader)
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user identity"})
		return 0, false
	}
	return userID, true
}

func toOrderResponse(o *domain.Order) orderResponse {
	tickets := make([]ticketResponse, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		tickets = append(tickets, ticketResponse{ID: t.ID, Row: t.Row, Seat: t.Seat})
	}
	return orderResponse{
		ID:        o.ID,
		Reference: o.Reference,
		FlightID:  o.FlightID,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		Tickets:   tickets,
	}
}
