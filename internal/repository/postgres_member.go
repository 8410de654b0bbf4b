package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avenard/clubregistry/internal/domain"
)

const memberColumns = `id, name, surname, email, phone, emergency_phone, birth_date,
	address, city, postal_code, tariff, payment_status, remarks,
	payer_name, payer_surname, payer_email, registration_date, created_at, updated_at`

// PostgresMemberRepository implements MemberRepository on a pgx pool.
type PostgresMemberRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMemberRepository creates a member repository.
func NewPostgresMemberRepository(pool *pgxpool.Pool) *PostgresMemberRepository {
	return &PostgresMemberRepository{pool: pool}
}

// Create inserts a new member, assigning its ID and timestamps.
func (r *PostgresMemberRepository) Create(ctx context.Context, m *domain.Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		m.ID, m.Name, m.Surname, m.Email, m.Phone, m.EmergencyPhone, toPgDate(m.BirthDate),
		m.Address, m.City, m.PostalCode, m.Tariff, string(m.PaymentStatus), m.Remarks,
		m.PayerName, m.PayerSurname, m.PayerEmail, m.RegistrationDate, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert member %s: %w", m.Email, err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing member.
func (r *PostgresMemberRepository) Update(ctx context.Context, m *domain.Member) error {
	m.UpdatedAt = time.Now()

	tag, err := r.pool.Exec(ctx, `
		UPDATE members SET
			name = $2, surname = $3, email = $4, phone = $5, emergency_phone = $6,
			birth_date = $7, address = $8, city = $9, postal_code = $10, tariff = $11,
			payment_status = $12, remarks = $13, payer_name = $14, payer_surname = $15,
			payer_email = $16, registration_date = $17, updated_at = $18
		WHERE id = $1`,
		m.ID, m.Name, m.Surname, m.Email, m.Phone, m.EmergencyPhone,
		toPgDate(m.BirthDate), m.Address, m.City, m.PostalCode, m.Tariff,
		string(m.PaymentStatus), m.Remarks, m.PayerName, m.PayerSurname,
		m.PayerEmail, m.RegistrationDate, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update member %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByEmail looks a member up by exact email. Absence is (nil, nil),
// not an error: callers branch on it to decide insert vs. update.
func (r *PostgresMemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE email = $1`, email)

	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find member by email: %w", err)
	}
	return m, nil
}

// GetByID fetches one member or ErrNotFound.
func (r *PostgresMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)

	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get member %s: %w", id, err)
	}
	return m, nil
}

// List returns all members ordered by surname then name.
func (r *PostgresMemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY surname, name`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// Delete removes one member or returns ErrNotFound.
func (r *PostgresMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the member total for the dashboard.
func (r *PostgresMemberRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// scanMember reads one member row.
func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	var birthDate pgtype.Date
	var status string

	err := row.Scan(
		&m.ID, &m.Name, &m.Surname, &m.Email, &m.Phone, &m.EmergencyPhone, &birthDate,
		&m.Address, &m.City, &m.PostalCode, &m.Tariff, &status, &m.Remarks,
		&m.PayerName, &m.PayerSurname, &m.PayerEmail, &m.RegistrationDate, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.BirthDate = fromPgDate(birthDate)
	m.PaymentStatus = domain.PaymentStatus(status)
	return &m, nil
}
