package department

import (
	"context"

	"github.com/zhouzirui/roster/backend/internal/model/roster"
)

// Store loads the dataset for reading.
type Store interface {
	View(ctx context.Context, fn func(*roster.Dataset) error) error
}

// Service exposes the read-only Departments collection.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns departments exactly as stored.
func (s *Service) List(ctx context.Context) ([]roster.Department, error) {
	var departments []roster.Department
	err := s.store.View(ctx, func(ds *roster.Dataset) error {
		departments = ds.Departments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return departments, nil
}
