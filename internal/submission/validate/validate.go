// Package validate checks participant data against the insurer's contract
// before any network call. All violations are aggregated so a caller can show
// every problem at once; input is never mutated.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"coverflow/internal/booking"
)

// FieldError is one violation, tagged with the participant it concerns when
// applicable.
type FieldError struct {
	Field         string `json:"field"`
	Message       string `json:"message"`
	ParticipantID string `json:"participantId,omitempty"`
}

// Result aggregates all violations for a batch.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// Error carries a failed Result through the error chain.
type Error struct {
	Errors []FieldError
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed with %d violation(s)", len(e.Errors))
}

// Err converts a Result into an error, nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Errors: r.Errors}
}

var (
	peselPattern       = regexp.MustCompile(`^\d{11}$`)
	citizenshipPattern = regexp.MustCompile(`^[A-Za-z]{2}$`)
	emailPattern       = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	digitPattern       = regexp.MustCompile(`\D`)
)

var birthDateLayouts = []string{"2006-01-02", time.RFC3339, "02.01.2006", "02-01-2006", "2006/01/02"}

const maxAge = 120

// Participants validates a batch against insurer requirements. The trip is
// optional; when given, its dates are checked too.
func Participants(participants []booking.Participant, trip *booking.Trip) Result {
	return participantsAt(participants, trip, time.Now())
}

func participantsAt(participants []booking.Participant, trip *booking.Trip, now time.Time) Result {
	var errs []FieldError

	if len(participants) == 0 {
		errs = append(errs, FieldError{Field: "participants", Message: "at least one participant is required"})
	}

	for _, p := range participants {
		errs = append(errs, validateParticipant(p, now)...)
	}

	if trip != nil {
		errs = append(errs, validateTripDates(*trip)...)
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func validateParticipant(p booking.Participant, now time.Time) []FieldError {
	var errs []FieldError
	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message, ParticipantID: p.ID})
	}

	if len(strings.TrimSpace(p.FirstName)) < 2 {
		add("firstName", "first name must be at least 2 characters")
	}
	if len(strings.TrimSpace(p.LastName)) < 2 {
		add("lastName", "last name must be at least 2 characters")
	}

	switch birthDate, err := parseBirthDate(p.BirthDate); {
	case p.BirthDate == "":
		add("birthDate", "birth date is required")
	case err != nil:
		add("birthDate", "birth date is not a valid date")
	case birthDate.After(now):
		add("birthDate", "birth date cannot be in the future")
	case birthDate.Before(now.AddDate(-maxAge, 0, 0)):
		add("birthDate", fmt.Sprintf("birth date implies age over %d years", maxAge))
	}

	switch {
	case p.PESEL != "":
		if !peselPattern.MatchString(p.PESEL) {
			add("pesel", "PESEL must be exactly 11 digits")
		}
	case p.DocumentNumber != "":
		if len(p.DocumentNumber) < 3 {
			add("documentNumber", "document number must be at least 3 characters")
		}
		if p.DocumentType == "" {
			add("documentType", "document type is required when a document number is present")
		}
	default:
		add("pesel", "either PESEL or an identity document number is required")
	}

	if p.Address == nil {
		add("address", "address is required")
	} else {
		if len(strings.TrimSpace(p.Address.City)) < 2 {
			add("address.city", "city must be at least 2 characters")
		}
		if len(strings.TrimSpace(p.Address.Zip)) < 4 {
			add("address.zip", "zip code must be at least 4 characters")
		}
		if strings.TrimSpace(p.Address.Country) == "" {
			add("address.country", "country is required")
		}
	}

	if p.Citizenship != "" && !citizenshipPattern.MatchString(p.Citizenship) {
		add("citizenship", "citizenship must be a 2-letter ISO 3166-1 alpha-2 code")
	}
	if p.Email != "" && !emailPattern.MatchString(p.Email) {
		add("email", "email address is not valid")
	}
	if p.Phone != "" {
		if digits := digitPattern.ReplaceAllString(p.Phone, ""); len(digits) < 7 {
			add("phone", "phone number must contain at least 7 digits")
		}
	}

	return errs
}

func validateTripDates(trip booking.Trip) []FieldError {
	if trip.StartDate == nil || trip.EndDate == nil {
		return []FieldError{{Field: "tripDates", Message: "trip start and end dates are required"}}
	}
	if !trip.EndDate.After(*trip.StartDate) {
		return []FieldError{{Field: "tripDates", Message: "trip end date must be after the start date"}}
	}
	return nil
}

func parseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
