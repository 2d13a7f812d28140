package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightbooking/internal/domain"
	"flightbooking/internal/repository"

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

func (m *MockFlightRepository) Search(ctx context.Context, filter repository.FlightSearch) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) MarkDeparted(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlightRepository) Stats(ctx context.Context) (*repository.CatalogStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(*repository.CatalogStats), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context, key string) ([]domain.Flight, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, key string, flights []domain.Flight) error {
	args := m.Called(ctx, key, flights)
	return args.Error(0)
}

func TestSearch_CacheHit(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, cache)

	ctx := context.Background()
	filter := repository.FlightSearch{From: "JFK", To: "LAX"}
	cached := []domain.Flight{{ID: "flight-1", FlightNumber: "SW101"}}

	cache.On("GetFlights", ctx, "JFK:LAX:").Return(cached, nil).Once()

	got, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	repo.AssertNotCalled(t, "Search")
}

func TestSearch_CacheMissPopulatesCache(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, cache)

	ctx := context.Background()
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	filter := repository.FlightSearch{From: "JFK", To: "LAX", Date: date}
	flights := []domain.Flight{{ID: "flight-1", FlightNumber: "SW101"}}

	cache.On("GetFlights", ctx, "JFK:LAX:2025-06-15").Return(nil, errors.New("miss")).Once()
	repo.On("Search", ctx, filter).Return(flights, nil).Once()
	cache.On("SetFlights", ctx, "JFK:LAX:2025-06-15", flights).Return(nil).Once()

	got, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSearch_CacheWriteFailureIgnored(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, cache)

	ctx := context.Background()
	filter := repository.FlightSearch{From: "ORD", To: "SFO"}
	flights := []domain.Flight{{ID: "flight-2"}}

	cache.On("GetFlights", ctx, "ORD:SFO:").Return(nil, errors.New("miss")).Once()
	repo.On("Search", ctx, filter).Return(flights, nil).Once()
	cache.On("SetFlights", ctx, "ORD:SFO:", flights).Return(errors.New("redis down")).Once()

	got, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
}

func TestSearch_WithoutCache(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()
	filter := repository.FlightSearch{From: "JFK", To: "LAX"}
	flights := []domain.Flight{{ID: "flight-1"}}

	repo.On("Search", ctx, filter).Return(flights, nil).Once()

	got, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
}

func TestSearch_RepositoryError(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()
	filter := repository.FlightSearch{From: "JFK", To: "LAX"}

	repo.On("Search", ctx, filter).Return(nil, errors.New("connection refused")).Once()

	got, err := service.Search(ctx, filter)

	assert.Nil(t, got)
	assert.Error(t, err)
}

func TestSweepDepartures(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	ctx := context.Background()
	repo.On("MarkDeparted", ctx, now).Return(int64(3), nil).Once()

	n, err := service.SweepDepartures(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	repo.AssertExpectations(t)
}
