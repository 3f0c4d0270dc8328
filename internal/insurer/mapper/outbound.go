// Package mapper translates between the booking domain and the insurer wire
// schema. Every function is pure; nothing here touches the network or storage.
package mapper

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"coverflow/internal/booking"
	"coverflow/internal/insurer/wire"
	"coverflow/internal/submission/models"
)

const wireDateLayout = "2006-01-02"

// acceptedDateLayouts covers the formats booking forms have historically
// produced.
var acceptedDateLayouts = []string{
	wireDateLayout,
	time.RFC3339,
	"02.01.2006",
	"02-01-2006",
	"2006/01/02",
}

// NormalizeDate parses a booking-form date and renders it as YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(wireDateLayout), nil
		}
	}
	return "", fmt.Errorf("unparseable date %q", raw)
}

// streetLinePattern captures a trailing house number ("12", "12A", "12/4") at
// the end of a combined street line.
var streetLinePattern = regexp.MustCompile(`^(.*?)[\s,]+(\d+[A-Za-z]?(?:/\d+[A-Za-z]?)?)$`)

// SplitStreetLine attempts to split a single street line into street and house
// number. When no trailing number is found the whole line becomes the street.
func SplitStreetLine(line string) (street, houseNumber string) {
	line = strings.TrimSpace(line)
	if m := streetLinePattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return line, ""
}

// PersonFromParticipant maps one participant onto the insurer person record.
// The ordinal is the stable per-submission person number; externalPersonID is
// set once the insurer has assigned one.
func PersonFromParticipant(p booking.Participant, ordinal int, externalPersonID string) (wire.Person, error) {
	birthDate, err := NormalizeDate(p.BirthDate)
	if err != nil {
		return wire.Person{}, fmt.Errorf("participant %s: birth date: %w", p.ID, err)
	}

	person := wire.Person{
		Lp:              ordinal,
		PersonID:        externalPersonID,
		Name:            p.FirstName,
		Surname:         p.LastName,
		BirthDate:       birthDate,
		CitizenshipCode: strings.ToUpper(p.Citizenship),
		Gender:          p.Gender,
		Email:           p.Email,
		Phone:           p.Phone,
	}
	if person.CitizenshipCode == "" {
		person.CitizenshipCode = "PL"
	}

	if p.PESEL != "" {
		person.PersonalIDTypeCode = wire.PersonalIDTypePESEL
		person.PersonalIDNumber = p.PESEL
	}
	if p.DocumentNumber != "" {
		person.DocumentTypeCode = p.DocumentType
		person.DocumentNumber = p.DocumentNumber
	}

	if p.Address != nil {
		street, houseNumber := SplitStreetLine(p.Address.StreetLine)
		person.Addresses = []wire.Address{{
			Street:      street,
			HouseNumber: houseNumber,
			City:        p.Address.City,
			ZipCode:     p.Address.Zip,
			CountryCode: strings.ToUpper(p.Address.Country),
		}}
	}

	return person, nil
}

// PersonsFromLinks maps every linked participant in ordinal order. Participants
// are matched to links by participant id; a link without a matching participant
// is an error, since ordinals must stay a dense 1..N sequence.
func PersonsFromLinks(participants []booking.Participant, links []models.ParticipantLink) ([]wire.Person, error) {
	byID := make(map[string]booking.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	persons := make([]wire.Person, 0, len(links))
	for _, link := range links {
		p, ok := byID[link.ParticipantID]
		if !ok {
			return nil, fmt.Errorf("participant %s linked but not found", link.ParticipantID)
		}
		person, err := PersonFromParticipant(p, link.HDIOrder, link.ExternalPersonID)
		if err != nil {
			return nil, err
		}
		persons = append(persons, person)
	}
	return persons, nil
}

// ParametersFromTrip derives the insurer parameters for a trip. Both trip dates
// are required.
func ParametersFromTrip(trip booking.Trip, productCode, variantCode, paymentSchemeCode string) (wire.InsuranceParameters, error) {
	if trip.StartDate == nil || trip.EndDate == nil {
		return wire.InsuranceParameters{}, fmt.Errorf("trip %s is missing start or end date", trip.ID)
	}
	return wire.InsuranceParameters{
		ProductCode:       productCode,
		VariantCode:       variantCode,
		PaymentSchemeCode: paymentSchemeCode,
		StartDate:         trip.StartDate.Format(wireDateLayout),
		EndDate:           trip.EndDate.Format(wireDateLayout),
		DestinationRegion: RegionFromLocation(trip.Location),
	}, nil
}
