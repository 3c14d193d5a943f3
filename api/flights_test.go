package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/mlukyanov/airticket/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*flights.FlightDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.FlightDetail), args.Error(1)
}

func (m *MockFlightUseCase) SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatMap), args.Error(1)
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights", nil)

	flightList := []domain.Flight{
		{ID: 1, FromAirport: "SVO", ToAirport: "LED", Airplane: domain.Airplane{Name: "A320", Rows: 25, SeatsPerRow: 6}},
	}
	mockService.On("List", c.Request.Context()).Return(flightList, nil).Once()

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []flightResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "A320", resp[0].Airplane.Name)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_get(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/flights/1", nil)

	detail := &flights.FlightDetail{
		Flight:     domain.Flight{ID: 1, FromAirport: "SVO", ToAirport: "LED", Airplane: domain.Airplane{Name: "A320", Rows: 25, SeatsPerRow: 6}},
		Capacity:   150,
		TakenSeats: 12,
	}
	mockService.On("GetByID", c.Request.Context(), int64(1)).Return(detail, nil).Once()

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp flightDetailResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 150, resp.Capacity)
	assert.Equal(t, 12, resp.TakenSeats)
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("GET", "/flights/99", nil)

	mockService.On("GetByID", c.Request.Context(), int64(99)).Return(nil, domain.ErrFlightNotFound).Once()

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_seatMap(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/flights/1/seat-map", nil)

	sm := &domain.SeatMap{
		FlightID:         1,
		Rows:             2,
		SeatsPerRow:      3,
		AvailableTickets: 4,
		Map: []domain.SeatMapRow{
			{Row: 1, Seats: []domain.SeatMapCell{{Num: 1}, {Num: 2, Taken: true}, {Num: 3}}},
			{Row: 2, Seats: []domain.SeatMapCell{{Num: 1}, {Num: 2}, {Num: 3, Taken: true}}},
		},
	}
	mockService.On("SeatMap", c.Request.Context(), int64(1)).Return(sm, nil).Once()

	handler.seatMap(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.SeatMap
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.AvailableTickets)
	assert.True(t, resp.Map[0].Seats[1].Taken)
}
