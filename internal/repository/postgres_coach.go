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

const coachColumns = `id, name, surname, email, phone, specialty, created_at, updated_at`

// PostgresCoachRepository implements CoachRepository on a pgx pool.
type PostgresCoachRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCoachRepository(pool *pgxpool.Pool) *PostgresCoachRepository {
	return &PostgresCoachRepository{pool: pool}
}

func (r *PostgresCoachRepository) Create(ctx context.Context, c *domain.Coach) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO coaches (`+coachColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Surname, c.Email, c.Phone, c.Specialty, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert coach: %w", err)
	}
	return nil
}

func (r *PostgresCoachRepository) Update(ctx context.Context, c *domain.Coach) error {
	c.UpdatedAt = time.Now()

	tag, err := r.pool.Exec(ctx, `
		UPDATE coaches SET name = $2, surname = $3, email = $4, phone = $5,
			specialty = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Surname, c.Email, c.Phone, c.Specialty, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update coach %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCoachRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Coach, error) {
	var c domain.Coach
	err := r.pool.QueryRow(ctx,
		`SELECT `+coachColumns+` FROM coaches WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Surname, &c.Email, &c.Phone, &c.Specialty, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get coach %s: %w", id, err)
	}
	return &c, nil
}

func (r *PostgresCoachRepository) List(ctx context.Context) ([]domain.Coach, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+coachColumns+` FROM coaches ORDER BY surname, name`)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	defer rows.Close()

	coaches := make([]domain.Coach, 0)
	for rows.Next() {
		var c domain.Coach
		if err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Email, &c.Phone, &c.Specialty, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan coach: %w", err)
		}
		coaches = append(coaches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	return coaches, nil
}

func (r *PostgresCoachRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coach %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCoachRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM coaches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count coaches: %w", err)
	}
	return n, nil
}
