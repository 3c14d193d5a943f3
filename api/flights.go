package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/mlukyanov/airticket/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type airplaneResponse struct {
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
}

type flightResponse struct {
	ID            int64            `json:"id"`
	FromAirport   string           `json:"from_airport"`
	ToAirport     string           `json:"to_airport"`
	DepartureTime string           `json:"departure_time"`
	ArrivalTime   string           `json:"arrival_time"`
	Airplane      airplaneResponse `json:"airplane"`
}

type flightDetailResponse struct {
	flightResponse
	Capacity   int `json:"capacity"`
	TakenSeats int `json:"taken_seats"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/seat-map", h.seatMap)
}

func (h *FlightHandler) list(c *gin.Context) {
	flightList, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]flightResponse, 0, len(flightList))
	for _, f := range flightList {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flightDetailResponse{
		flightResponse: toFlightResponse(detail.Flight),
		Capacity:       detail.Capacity,
		TakenSeats:     detail.TakenSeats,
	})
}

func (h *FlightHandler) seatMap(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	sm, err := h.service.SeatMap(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sm)
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:            f.ID,
		FromAirport:   f.FromAirport,
		ToAirport:     f.ToAirport,
		DepartureTime: f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:   f.ArrivalTime.Format(time.RFC3339),
		Airplane: airplaneResponse{
			Name:        f.Airplane.Name,
			Rows:        f.Airplane.Rows,
			SeatsPerRow: f.Airplane.SeatsPerRow,
		},
	}
}
