// Package repository provides the persistence layer: PostgreSQL-backed
// stores for members, coaches, courses and attendance sheets, plus a
// cache-aside decorator for the member list.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/avenard/clubregistry/internal/domain"
)

// ErrNotFound is returned by Get* methods when no row matches.
var ErrNotFound = errors.New("not found")

// MemberRepository stores members, unique by email.
type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) error
	Update(ctx context.Context, m *domain.Member) error
	// FindByEmail returns (nil, nil) when no member has that email.
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// CoachRepository stores coaches.
type CoachRepository interface {
	Create(ctx context.Context, c *domain.Coach) error
	Update(ctx context.Context, c *domain.Coach) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Coach, error)
	List(ctx context.Context) ([]domain.Coach, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// CourseRepository stores the weekly course calendar.
type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) error
	Update(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// AttendanceRepository stores attendance sheets and their entries.
type AttendanceRepository interface {
	Create(ctx context.Context, s *domain.AttendanceSheet) error
	Update(ctx context.Context, s *domain.AttendanceSheet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceSheet, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.AttendanceSheet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// toPgDate converts an optional date to its pgtype form.
func toPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

// fromPgDate converts a nullable date column back to an optional date.
func fromPgDate(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
