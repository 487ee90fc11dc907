package facility

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name     string
	Type     string
	Bookable *bool
}

type UpdateRequest struct {
	Name     *string
	Bookable *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Facility, error)
	GetByID(ctx context.Context, id string) (*Facility, error)
	GetByName(ctx context.Context, name string) (*Facility, error)
	List(ctx context.Context) ([]*Facility, error)
	ListBookable(ctx context.Context, typ Type) ([]*Facility, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Facility, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Facility, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	typ := Type(req.Type)
	if !typ.Valid() {
		return nil, ErrInvalidType
	}

	bookable := true
	if req.Bookable != nil {
		bookable = *req.Bookable
	}

	f := &Facility{
		Name:     name,
		Type:     typ,
		Bookable: bookable,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Facility, error) {
	if Normalize(name) == "" {
		return nil, ErrEmptyName
	}
	return s.repo.GetByName(ctx, name)
}

func (s *service) List(ctx context.Context) ([]*Facility, error) {
	return s.repo.List(ctx)
}

func (s *service) ListBookable(ctx context.Context, typ Type) ([]*Facility, error) {
	if typ != "" && !typ.Valid() {
		return nil, ErrInvalidType
	}
	return s.repo.ListBookable(ctx, typ)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Facility, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		f.Name = name
	}
	if req.Bookable != nil {
		f.Bookable = *req.Bookable
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
