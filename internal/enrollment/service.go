package enrollment

import (
	"context"
	"strings"
)

type Service interface {
	// Courses returns the user's enrolled courses, empty when none are on
	// record.
	Courses(ctx context.Context, userID string) ([]Course, error)

	// Replace sets the user's whole course list, creating the enrollment if
	// it does not exist yet.
	Replace(ctx context.Context, userID string, courses []Course) ([]Course, error)

	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Courses(ctx context.Context, userID string) ([]Course, error) {
	courses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []Course{}
	}
	return courses, nil
}

func (s *service) Replace(ctx context.Context, userID string, courses []Course) ([]Course, error) {
	if len(courses) == 0 {
		return nil, ErrNoCourses
	}
	for _, c := range courses {
		if strings.TrimSpace(c.CourseCode) == "" ||
			strings.TrimSpace(c.CourseName) == "" ||
			strings.TrimSpace(c.StaffName) == "" {
			return nil, ErrBadCourse
		}
	}

	if err := s.repo.Replace(ctx, userID, courses); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	deleted, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
