package people

import (
	"context"
	"errors"

	"github.com/zhouzirui/roster/backend/internal/model/roster"
)

var ErrPersonNotFound = errors.New("person not found")

// Store is the slice of the storage accessor the service needs.
type Store interface {
	View(ctx context.Context, fn func(*roster.Dataset) error) error
	Update(ctx context.Context, fn func(*roster.Dataset) error) error
}

// Service implements the People resource on top of the data file.
type Service struct {
	store Store
}

// NewService binds the service to a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every person in storage order.
func (s *Service) List(ctx context.Context) ([]roster.Person, error) {
	var people []roster.Person
	err := s.store.View(ctx, func(ds *roster.Dataset) error {
		people = ds.People
		return nil
	})
	if err != nil {
		return nil, err
	}
	return people, nil
}

// Get returns the first person with the given id.
func (s *Service) Get(ctx context.Context, id int64) (roster.Person, error) {
	var person roster.Person
	err := s.store.View(ctx, func(ds *roster.Dataset) error {
		idx := ds.IndexOf(id)
		if idx < 0 {
			return ErrPersonNotFound
		}
		person = ds.People[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// Create appends a person with a freshly assigned id. Any Id in fields is ignored.
func (s *Service) Create(ctx context.Context, fields roster.Person) (roster.Person, error) {
	var created roster.Person
	err := s.store.Update(ctx, func(ds *roster.Dataset) error {
		created = fields.WithID(ds.NextID())
		ds.People = append(ds.People, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update shallow-merges patch into the person with the given id.
func (s *Service) Update(ctx context.Context, id int64, patch roster.Person) (roster.Person, error) {
	var merged roster.Person
	err := s.store.Update(ctx, func(ds *roster.Dataset) error {
		idx := ds.IndexOf(id)
		if idx < 0 {
			return ErrPersonNotFound
		}
		merged = ds.People[idx].Merge(patch)
		ds.People[idx] = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes every person with the given id. Missing ids are not an error
// and the file is rewritten either way.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Update(ctx, func(ds *roster.Dataset) error {
		ds.RemoveID(id)
		return nil
	})
}
