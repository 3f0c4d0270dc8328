// Package booking exposes the read side of the booking domain the engine
// consumes: confirmed trips, their participants, and insurance product
// configuration. Booking lifecycle itself is owned elsewhere.
package booking

import "time"

// Trip is one group travel event.
type Trip struct {
	ID   string
	Name string
	// Location is operator-entered free text ("Alpy, Austria"); the mapper
	// derives a destination region from it.
	Location  string
	StartDate *time.Time
	EndDate   *time.Time
}

// BookingStatus values as persisted by the booking domain.
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Address is the participant's postal address as captured on the booking form.
// StreetLine mixes street and house number in one field.
type Address struct {
	StreetLine string
	City       string
	Zip        string
	Country    string
}

// Participant carries the personal data the insurer requires. Dates arrive as
// strings from the booking forms and are validated before mapping.
type Participant struct {
	ID             string
	FirstName      string
	LastName       string
	BirthDate      string
	Gender         string
	Email          string
	Phone          string
	PESEL          string
	DocumentType   string
	DocumentNumber string
	Citizenship    string
	Address        *Address
}

// InsuranceProduct is the configured product/variant pair submissions default to.
type InsuranceProduct struct {
	Code              string
	VariantCode       string
	PaymentSchemeCode string
	IsDefault         bool
}
