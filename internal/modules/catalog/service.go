package catalog

import (
	"context"
	"errors"

	"travelbook/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("property not found")

type PropertyRepository interface {
	List(ctx context.Context) ([]domain.Property, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
}

// Service is the read side of the property catalog. Catalog management
// happens elsewhere; bookings only need to resolve references.
type Service struct {
	properties PropertyRepository
}

func NewService(properties PropertyRepository) *Service {
	return &Service{properties: properties}
}

func (s *Service) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.properties.List(ctx)
}

func (s *Service) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
