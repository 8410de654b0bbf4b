// Package domain defines the entities managed by the club registry:
// members, coaches, the weekly course calendar and attendance sheets.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus reports whether a member's registration order has been paid.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// Member is a registered club member. The registry holds at most one
// Member per distinct email address; the email is the identity key used
// by the bulk import reconciliation.
type Member struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Surname        string        `json:"surname"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	EmergencyPhone string        `json:"emergencyPhone"`
	// BirthDate is nil when the source export carried no parsable date.
	BirthDate        *time.Time    `json:"birthDate,omitempty"`
	Address          string        `json:"address"`
	City             string        `json:"city"`
	PostalCode       string        `json:"postalCode"`
	Tariff           string        `json:"tariff"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	Remarks          string        `json:"remarks"`
	PayerName        string        `json:"payerName"`
	PayerSurname     string        `json:"payerSurname"`
	PayerEmail       string        `json:"payerEmail"`
	RegistrationDate time.Time     `json:"registrationDate"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}
