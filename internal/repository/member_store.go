package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/domain"
	"github.com/avenard/clubregistry/internal/ingest"
)

// MemberStore adapts a MemberRepository to the import pipeline's
// persistence port. Insert and Update materialize candidate records into
// member entities; Update overwrites every import-owned field of the
// existing member while keeping its identity and creation timestamp.
type MemberStore struct {
	repo MemberRepository
}

// NewMemberStore wraps a member repository for use by the importer.
func NewMemberStore(repo MemberRepository) *MemberStore {
	return &MemberStore{repo: repo}
}

// FindByEmail returns (nil, nil) when no member has that email.
func (s *MemberStore) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Insert creates a new member from a candidate record.
func (s *MemberStore) Insert(ctx context.Context, rec ingest.CandidateRecord) (*domain.Member, error) {
	m := rec.Member()
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the fields of the identified member with the
// candidate's.
func (s *MemberStore) Update(ctx context.Context, id uuid.UUID, rec ingest.CandidateRecord) (*domain.Member, error) {
	m := rec.Member()
	m.ID = id
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
