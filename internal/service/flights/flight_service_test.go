package flights

import (
	"context"
	"testing"

	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockSeatReader struct {
	mock.Mock
}

func (m *MockSeatReader) OccupiedSeats(ctx context.Context, flightID int64) ([]domain.SeatCoordinate, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.SeatCoordinate), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatMap), args.Error(1)
}

func (m *MockCache) SetSeatMap(ctx context.Context, sm *domain.SeatMap) error {
	args := m.Called(ctx, sm)
	return args.Error(0)
}

func (m *MockCache) InvalidateSeatMap(ctx context.Context, flightID int64) error {
	args := m.Called(ctx, flightID)
	return args.Error(0)
}

func testFlight() *domain.Flight {
	return &domain.Flight{
		ID:          4,
		FromAirport: "SVO",
		ToAirport:   "LED",
		Airplane:    domain.Airplane{ID: 1, Name: "Embraer 190", Rows: 2, SeatsPerRow: 3},
	}
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatReader{}
	mockCache := &MockCache{}

	service := NewFlightService(mockRepo, mockSeats, mockCache)

	ctx := context.Background()
	flights := []domain.Flight{*testFlight()}
	mockCache.On("GetFlights", ctx).Return([]domain.Flight(nil), nil).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	got, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatReader{}
	mockCache := &MockCache{}

	service := NewFlightService(mockRepo, mockSeats, mockCache)

	ctx := context.Background()
	flights := []domain.Flight{*testFlight()}
	mockCache.On("GetFlights", ctx).Return(flights, nil).Once()

	got, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
	mockRepo.AssertNotCalled(t, "List")
}

func TestFlightService_GetByID(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatReader{}

	service := NewFlightService(mockRepo, mockSeats, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockSeats.On("OccupiedSeats", ctx, int64(4)).
		Return([]domain.SeatCoordinate{{Row: 1, Seat: 2}, {Row: 2, Seat: 3}}, nil).Once()

	detail, err := service.GetByID(ctx, 4)

	assert.NoError(t, err)
	assert.Equal(t, 6, detail.Capacity)
	assert.Equal(t, 2, detail.TakenSeats)
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatReader{}

	service := NewFlightService(mockRepo, mockSeats, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrFlightNotFound).Once()

	detail, err := service.GetByID(ctx, 99)

	assert.Nil(t, detail)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	mockSeats.AssertNotCalled(t, "OccupiedSeats")
}

func TestFlightService_SeatMap(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatReader{}

	service := NewFlightService(mockRepo, mockSeats, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockSeats.On("OccupiedSeats", ctx, int64(4)).
		Return([]domain.SeatCoordinate{{Row: 1, Seat: 2}, {Row: 2, Seat: 3}}, nil).Once()

	sm, err := service.SeatMap(ctx, 4)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), sm.FlightID)
	assert.Equal(t, 2, sm.Rows)
	assert.Equal(t, 3, sm.SeatsPerRow)
	assert.Equal(t, 4, sm.AvailableTickets)
	assert.Len(t, sm.Map, 2)

	// Rows ascend and seats ascend within each row.
	for i, row := range sm.Map {
		assert.Equal(t, i+1, row.Row)
		assert.Len(t, row.Seats, 3)
		for j, cell := range row.Seats {
			assert.Equal(t, j+1, cell.Num)
		}
	}
	assert.True(t, sm.Map[0].Seats[1].Taken)  // (1,2)
	assert.True(t, sm.Map[1].Seats[2].Taken)  // (2,3)
	assert.False(t, sm.Map[0].Seats[0].Taken) // (1,1)
	assert.False(t, sm.Map[1].Seats[1].Taken) // (2,2)
}

func TestFlightService_SeatMap_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatReader{}
	mockCache := &MockCache{}

	service := NewFlightService(mockRepo, mockSeats, mockCache)

	ctx := context.Background()
	cached := &domain.SeatMap{FlightID: 4, Rows: 2, SeatsPerRow: 3, AvailableTickets: 6}
	mockCache.On("GetSeatMap", ctx, int64(4)).Return(cached, nil).Once()

	sm, err := service.SeatMap(ctx, 4)

	assert.NoError(t, err)
	assert.Equal(t, cached, sm)
	mockRepo.AssertNotCalled(t, "GetByID")
	mockSeats.AssertNotCalled(t, "OccupiedSeats")
}

func TestFlightService_SeatMap_EmptyFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatReader{}

	service := NewFlightService(mockRepo, mockSeats, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockSeats.On("OccupiedSeats", ctx, int64(4)).Return([]domain.SeatCoordinate{}, nil).Once()

	sm, err := service.SeatMap(ctx, 4)

	assert.NoError(t, err)
	assert.Equal(t, 6, sm.AvailableTickets)
	for _, row := range sm.Map {
		for _, cell := range row.Seats {
			assert.False(t, cell.Taken)
		}
	}
}
