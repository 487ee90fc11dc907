package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campuskit/facility-booking-backend/internal/auth"
)

const minPasswordLength = 8

type RegisterRequest struct {
	ID       string
	Email    string
	Role     string
	Password string
}

// BulkResult reports the outcome of a bulk register/delete call.
type BulkResult struct {
	Succeeded []string
	Failed    map[string]string // id -> reason
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	// BulkRegister registers many users; individual failures do not abort the
	// rest of the batch.
	BulkRegister(ctx context.Context, reqs []RegisterRequest) (*BulkResult, error)
	Login(ctx context.Context, id, password string) (*User, string, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListIDs(ctx context.Context) ([]string, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (*BulkResult, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	jwt    *auth.JWTManager
}

func NewService(repo Repository, hasher auth.PasswordHasher, jwt *auth.JWTManager) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	id := strings.TrimSpace(req.ID)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if id == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := Role(req.Role)
	if req.Role == "" {
		role = RoleStudent
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           id,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) BulkRegister(ctx context.Context, reqs []RegisterRequest) (*BulkResult, error) {
	result := &BulkResult{Failed: make(map[string]string)}
	for _, req := range reqs {
		if _, err := s.Register(ctx, req); err != nil {
			result.Failed[req.ID] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, req.ID)
	}
	return result, nil
}

// Login verifies credentials and returns the user along with a signed token.
func (s *service) Login(ctx context.Context, id, password string) (*User, string, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(u.ID, string(u.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return u, token, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListIDs(ctx)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) BulkDelete(ctx context.Context, ids []string) (*BulkResult, error) {
	result := &BulkResult{Failed: make(map[string]string)}
	for _, id := range ids {
		if err := s.repo.Delete(ctx, id); err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}
