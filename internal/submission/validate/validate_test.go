package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverflow/internal/booking"
)

type ValidateSuite struct {
	suite.Suite
	now time.Time
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateSuite))
}

func (s *ValidateSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// validParticipant builds a participant that passes every rule; tests break
// one field at a time.
func validParticipant() booking.Participant {
	return booking.Participant{
		ID:          "p1",
		FirstName:   "Anna",
		LastName:    "Kowalska",
		BirthDate:   "1985-03-21",
		PESEL:       "85032112345",
		Citizenship: "PL",
		Email:       "anna@example.com",
		Phone:       "+48 123 456 789",
		Address: &booking.Address{
			StreetLine: "Długa 7",
			City:       "Warszawa",
			Zip:        "00-238",
			Country:    "PL",
		},
	}
}

func (s *ValidateSuite) fieldsOf(result Result) []string {
	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func (s *ValidateSuite) TestValidBatch() {
	result := participantsAt([]booking.Participant{validParticipant()}, nil, s.now)
	s.True(result.Valid)
	s.Empty(result.Errors)
	s.NoError(result.Err())
}

func (s *ValidateSuite) TestEmptyBatch() {
	result := participantsAt(nil, nil, s.now)
	s.False(result.Valid)
	s.Contains(s.fieldsOf(result), "participants")
}

func (s *ValidateSuite) TestNames() {
	p := validParticipant()
	p.FirstName = "A"
	p.LastName = " "

	result := participantsAt([]booking.Participant{p}, nil, s.now)
	s.False(result.Valid)
	s.Contains(s.fieldsOf(result), "firstName")
	s.Contains(s.fieldsOf(result), "lastName")
}

func (s *ValidateSuite) TestBirthDate() {
	s.Run("missing", func() {
		p := validParticipant()
		p.BirthDate = ""
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "birthDate")
	})

	s.Run("unparseable", func() {
		p := validParticipant()
		p.BirthDate = "March 21st"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "birthDate")
	})

	s.Run("in the future", func() {
		p := validParticipant()
		p.BirthDate = "2031-01-01"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "birthDate")
	})

	s.Run("implausibly old", func() {
		p := validParticipant()
		p.BirthDate = "1900-01-01"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "birthDate")
	})

	s.Run("european format accepted", func() {
		p := validParticipant()
		p.BirthDate = "21.03.1985"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.True(result.Valid)
	})
}

func (s *ValidateSuite) TestIdentity() {
	s.Run("valid PESEL passes", func() {
		p := validParticipant()
		p.PESEL = "12345678901"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.True(result.Valid)
	})

	s.Run("malformed PESEL fails", func() {
		for _, pesel := range []string{"1234567890", "123456789012", "1234567890a"} {
			p := validParticipant()
			p.PESEL = pesel
			result := participantsAt([]booking.Participant{p}, nil, s.now)
			s.False(result.Valid, "PESEL %q", pesel)
			s.Contains(s.fieldsOf(result), "pesel")
		}
	})

	s.Run("document instead of PESEL passes", func() {
		p := validParticipant()
		p.PESEL = ""
		p.DocumentType = "PASSPORT"
		p.DocumentNumber = "AB1234567"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.True(result.Valid)
	})

	s.Run("document number without type fails", func() {
		p := validParticipant()
		p.PESEL = ""
		p.DocumentNumber = "AB1234567"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "documentType")
	})

	s.Run("missing both yields exactly one identity error", func() {
		p := validParticipant()
		p.PESEL = ""
		p.DocumentNumber = ""
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.False(result.Valid)

		var identityErrors []FieldError
		for _, e := range result.Errors {
			if e.Field == "pesel" || e.Field == "documentNumber" || e.Field == "documentType" {
				identityErrors = append(identityErrors, e)
			}
		}
		s.Require().Len(identityErrors, 1)
		s.Equal("pesel", identityErrors[0].Field)
	})
}

func (s *ValidateSuite) TestAddress() {
	s.Run("missing address", func() {
		p := validParticipant()
		p.Address = nil
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "address")
	})

	s.Run("incomplete address", func() {
		p := validParticipant()
		p.Address = &booking.Address{StreetLine: "Długa 7", City: "W", Zip: "00", Country: ""}
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		fields := s.fieldsOf(result)
		s.Contains(fields, "address.city")
		s.Contains(fields, "address.zip")
		s.Contains(fields, "address.country")
	})
}

func (s *ValidateSuite) TestOptionalContactFields() {
	s.Run("bad citizenship code", func() {
		p := validParticipant()
		p.Citizenship = "POL"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "citizenship")
	})

	s.Run("bad email", func() {
		p := validParticipant()
		p.Email = "not-an-email"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "email")
	})

	s.Run("short phone", func() {
		p := validParticipant()
		p.Phone = "12 34"
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.Contains(s.fieldsOf(result), "phone")
	})

	s.Run("empty optional fields are fine", func() {
		p := validParticipant()
		p.Email = ""
		p.Phone = ""
		p.Citizenship = ""
		result := participantsAt([]booking.Participant{p}, nil, s.now)
		s.True(result.Valid)
	})
}

func (s *ValidateSuite) TestTripDates() {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	s.Run("complete range passes", func() {
		trip := booking.Trip{StartDate: &start, EndDate: &end}
		result := participantsAt([]booking.Participant{validParticipant()}, &trip, s.now)
		s.True(result.Valid)
	})

	s.Run("missing end date", func() {
		trip := booking.Trip{StartDate: &start}
		result := participantsAt([]booking.Participant{validParticipant()}, &trip, s.now)
		s.Contains(s.fieldsOf(result), "tripDates")
	})

	s.Run("end before start", func() {
		trip := booking.Trip{StartDate: &end, EndDate: &start}
		result := participantsAt([]booking.Participant{validParticipant()}, &trip, s.now)
		s.Contains(s.fieldsOf(result), "tripDates")
	})

	s.Run("zero-length trip is rejected", func() {
		trip := booking.Trip{StartDate: &start, EndDate: &start}
		result := participantsAt([]booking.Participant{validParticipant()}, &trip, s.now)
		s.Contains(s.fieldsOf(result), "tripDates")
	})
}

func (s *ValidateSuite) TestErrConversion() {
	p := validParticipant()
	p.PESEL = "short"
	result := participantsAt([]booking.Participant{p}, nil, s.now)

	err := result.Err()
	s.Require().Error(err)
	s.Contains(err.Error(), "1 violation")
}
