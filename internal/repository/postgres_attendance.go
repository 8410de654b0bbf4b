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

// PostgresAttendanceRepository implements AttendanceRepository on a pgx
// pool. Sheet entries are replaced wholesale on update; a sheet is small
// (one course occurrence) so the rewrite stays cheap and keeps the sheet
// and its entries consistent within one transaction.
type PostgresAttendanceRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAttendanceRepository(pool *pgxpool.Pool) *PostgresAttendanceRepository {
	return &PostgresAttendanceRepository{pool: pool}
}

func (r *PostgresAttendanceRepository) Create(ctx context.Context, s *domain.AttendanceSheet) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO attendance_sheets (id, course_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.CourseID, s.Date, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attendance sheet: %w", err)
	}

	if err := insertEntries(ctx, tx, s.ID, s.Entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresAttendanceRepository) Update(ctx context.Context, s *domain.AttendanceSheet) error {
	s.UpdatedAt = time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE attendance_sheets SET course_id = $2, date = $3, updated_at = $4
		WHERE id = $1`,
		s.ID, s.CourseID, s.Date, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update attendance sheet %s: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM attendance_entries WHERE sheet_id = $1`, s.ID); err != nil {
		return fmt.Errorf("clear attendance entries: %w", err)
	}
	if err := insertEntries(ctx, tx, s.ID, s.Entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresAttendanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceSheet, error) {
	var s domain.AttendanceSheet
	err := r.pool.QueryRow(ctx, `
		SELECT id, course_id, date, created_at, updated_at
		FROM attendance_sheets WHERE id = $1`, id,
	).Scan(&s.ID, &s.CourseID, &s.Date, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attendance sheet %s: %w", id, err)
	}

	entries, err := r.loadEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Entries = entries
	return &s, nil
}

func (r *PostgresAttendanceRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.AttendanceSheet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, date, created_at, updated_at
		FROM attendance_sheets WHERE course_id = $1 ORDER BY date DESC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list attendance sheets: %w", err)
	}
	defer rows.Close()

	sheets := make([]domain.AttendanceSheet, 0)
	for rows.Next() {
		var s domain.AttendanceSheet
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Date, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan attendance sheet: %w", err)
		}
		sheets = append(sheets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance sheets: %w", err)
	}

	for i := range sheets {
		entries, err := r.loadEntries(ctx, sheets[i].ID)
		if err != nil {
			return nil, err
		}
		sheets[i].Entries = entries
	}
	return sheets, nil
}

func (r *PostgresAttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendance_sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance sheet %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAttendanceRepository) loadEntries(ctx context.Context, sheetID uuid.UUID) ([]domain.AttendanceEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT member_id, present FROM attendance_entries WHERE sheet_id = $1`, sheetID)
	if err != nil {
		return nil, fmt.Errorf("load attendance entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AttendanceEntry, 0)
	for rows.Next() {
		var e domain.AttendanceEntry
		if err := rows.Scan(&e.MemberID, &e.Present); err != nil {
			return nil, fmt.Errorf("scan attendance entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertEntries(ctx context.Context, tx pgx.Tx, sheetID uuid.UUID, entries []domain.AttendanceEntry) error {
	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO attendance_entries (sheet_id, member_id, present)
			VALUES ($1, $2, $3)`,
			sheetID, e.MemberID, e.Present,
		)
		if err != nil {
			return fmt.Errorf("insert attendance entry: %w", err)
		}
	}
	return nil
}
