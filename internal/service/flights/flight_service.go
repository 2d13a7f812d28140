package flights

import (
	"context"
	"fmt"
	"time"

	"flightbooking/internal/domain"
	"flightbooking/internal/repository"

	"golang.org/x/sync/singleflight"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter repository.FlightSearch) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Stats(ctx context.Context) (*repository.CatalogStats, error)
	SweepDepartures(ctx context.Context) (int64, error)
}

type Cache interface {
	GetFlights(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
	group singleflight.Group
	now   func() time.Time
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache, now: time.Now}
}

// Search serves from the Redis cache when it can; on a miss, singleflight
// collapses concurrent identical searches into one database query.
func (s *FlightService) Search(ctx context.Context, filter repository.FlightSearch) ([]domain.Flight, error) {
	key := searchKey(filter)
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		flights, err := s.repo.Search(ctx, filter)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			_ = s.cache.SetFlights(ctx, key, flights)
		}
		return flights, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Flight), nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Stats(ctx context.Context) (*repository.CatalogStats, error) {
	return s.repo.Stats(ctx)
}

// SweepDepartures marks scheduled flights whose departure time has passed
// as departed. Run periodically by the worker.
func (s *FlightService) SweepDepartures(ctx context.Context) (int64, error) {
	return s.repo.MarkDeparted(ctx, s.now())
}

func searchKey(filter repository.FlightSearch) string {
	date := ""
	if !filter.Date.IsZero() {
		date = filter.Date.Format("2006-01-02")
	}
	return fmt.Sprintf("%s:%s:%s", filter.From, filter.To, date)
}

var _ FlightUseCase = (*FlightService)(nil)
