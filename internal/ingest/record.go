package ingest

import (
	"time"

	"github.com/avenard/clubregistry/internal/domain"
)

// CandidateRecord is the sanitized, typed result of parsing one export
// row. It is built once by the parser, never mutated afterwards, and
// consumed exactly once by the reconciler, where it either becomes a new
// member or overwrites the fields of an existing one.
type CandidateRecord struct {
	Name           string
	Surname        string
	Email          string
	Phone          string
	EmergencyPhone string
	// BirthDate is meaningful only when BirthDateKnown is true.
	BirthDate        time.Time
	BirthDateKnown   bool
	Address          string
	City             string
	PostalCode       string
	Tariff           string
	PaymentStatus    domain.PaymentStatus
	Remarks          string
	PayerName        string
	PayerSurname     string
	PayerEmail       string
	RegistrationDate time.Time
}

// Member materializes the candidate as a member entity. The caller owns
// ID assignment and timestamps.
func (c CandidateRecord) Member() *domain.Member {
	m := &domain.Member{
		Name:             c.Name,
		Surname:          c.Surname,
		Email:            c.Email,
		Phone:            c.Phone,
		EmergencyPhone:   c.EmergencyPhone,
		Address:          c.Address,
		City:             c.City,
		PostalCode:       c.PostalCode,
		Tariff:           c.Tariff,
		PaymentStatus:    c.PaymentStatus,
		Remarks:          c.Remarks,
		PayerName:        c.PayerName,
		PayerSurname:     c.PayerSurname,
		PayerEmail:       c.PayerEmail,
		RegistrationDate: c.RegistrationDate,
	}
	if c.BirthDateKnown {
		bd := c.BirthDate
		m.BirthDate = &bd
	}
	return m
}
