package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avenard/clubregistry/internal/domain"
)

const courseColumns = `id, name, weekday, start_time, end_time, coach_id, capacity, location, created_at, updated_at`

// PostgresCourseRepository implements CourseRepository on a pgx pool.
type PostgresCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCourseRepository(pool *pgxpool.Pool) *PostgresCourseRepository {
	return &PostgresCourseRepository{pool: pool}
}

func (r *PostgresCourseRepository) Create(ctx context.Context, c *domain.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO courses (`+courseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, int(c.Weekday), c.StartTime, c.EndTime, c.CoachID, c.Capacity, c.Location, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *PostgresCourseRepository) Update(ctx context.Context, c *domain.Course) error {
	c.UpdatedAt = time.Now()

	tag, err := r.pool.Exec(ctx, `
		UPDATE courses SET name = $2, weekday = $3, start_time = $4, end_time = $5,
			coach_id = $6, capacity = $7, location = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Name, int(c.Weekday), c.StartTime, c.EndTime, c.CoachID, c.Capacity, c.Location, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update course %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)

	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course %s: %w", id, err)
	}
	return c, nil
}

func (r *PostgresCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY weekday, start_time`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (r *PostgresCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCourseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	var weekday int
	err := row.Scan(&c.ID, &c.Name, &weekday, &c.StartTime, &c.EndTime, &c.CoachID, &c.Capacity, &c.Location, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Weekday = time.Weekday(weekday)
	return &c, nil
}
