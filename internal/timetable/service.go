package timetable

import (
	"context"
)

type Service interface {
	GetByUser(ctx context.Context, userID string) (*Template, error)
	// Rebuild replaces a user's template with the given 40 slots.
	Rebuild(ctx context.Context, userID string, slots []Slot) (*Template, error)
	// RebuildFromGrid parses the tabular import form and replaces the template.
	RebuildFromGrid(ctx context.Context, userID string, rows [][]string, courses []Course) (*Template, error)
	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByUser(ctx context.Context, userID string) (*Template, error) {
	return s.repo.GetByUser(ctx, userID)
}

func (s *service) Rebuild(ctx context.Context, userID string, slots []Slot) (*Template, error) {
	if err := ValidateGrid(slots); err != nil {
		return nil, err
	}

	t := &Template{UserID: userID, Periods: slots}
	if err := s.repo.Replace(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) RebuildFromGrid(ctx context.Context, userID string, rows [][]string, courses []Course) (*Template, error) {
	slots, err := ParseGrid(rows, courses)
	if err != nil {
		return nil, err
	}
	return s.Rebuild(ctx, userID, slots)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
