package city

import (
	"context"
	"log/slog"

	"github.com/mahnouor1/streetly/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for destination lookups.
type Service interface {
	GetCity(ctx context.Context, name string) (*types.City, error)
	GetAllCities(ctx context.Context) ([]types.City, error)
}

type ServiceImpl struct {
	logger         *slog.Logger
	cityRepository Repository
}

func NewServiceImpl(cityRepository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:         logger,
		cityRepository: cityRepository,
	}
}

func (s *ServiceImpl) GetCity(ctx context.Context, name string) (*types.City, error) {
	c, err := s.cityRepository.GetCity(ctx, name)
	if err != nil {
		s.logger.Debug("city lookup missed", "name", name)
		return nil, err
	}
	return c, nil
}

func (s *ServiceImpl) GetAllCities(ctx context.Context) ([]types.City, error) {
	return s.cityRepository.GetAllCities(ctx)
}
