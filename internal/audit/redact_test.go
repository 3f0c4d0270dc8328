package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"coverflow/internal/insurer/wire"
)

type RedactSuite struct {
	suite.Suite
}

func TestRedactSuite(t *testing.T) {
	suite.Run(t, new(RedactSuite))
}

func (s *RedactSuite) decode(raw json.RawMessage) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(raw, &out))
	return out
}

func (s *RedactSuite) TestPersonalDataIsMasked() {
	person := wire.Person{
		Lp:               1,
		Name:             "Anna",
		Surname:          "Kowalska",
		BirthDate:        "1985-03-21",
		Email:            "anna@example.com",
		Phone:            "+48123456789",
		PersonalIDNumber: "85032112345",
		Addresses: []wire.Address{{
			Street: "Długa", HouseNumber: "7", City: "Warszawa", ZipCode: "00-238",
		}},
	}

	raw := Redact(wire.CalculateRequest{Persons: []wire.Person{person}})
	s.Require().NotNil(raw)

	// None of the raw values may survive anywhere in the output.
	text := string(raw)
	for _, secret := range []string{"Anna", "Kowalska", "1985-03-21", "anna@example.com", "+48123456789", "85032112345", "Długa", "Warszawa", "00-238"} {
		s.NotContains(text, secret)
	}

	decoded := s.decode(raw)
	persons := decoded["persons"].([]any)
	first := persons[0].(map[string]any)
	s.Equal(MaskToken, first["name"])
	s.Equal(MaskToken, first["surname"])
	s.Equal(MaskToken, first["personalIdNumber"])
	// The whole addresses array is masked because the key itself is sensitive.
	s.Equal(MaskToken, first["addresses"])
}

func (s *RedactSuite) TestNonSensitiveFieldsSurvive() {
	raw := Redact(wire.CalculateResponse{
		OfferID:      "offer-1",
		Status:       "CALCULATED",
		TotalPremium: 420.50,
		Currency:     "PLN",
	})

	decoded := s.decode(raw)
	s.Equal("offer-1", decoded["offerId"])
	s.Equal("CALCULATED", decoded["status"])
	s.Equal(420.50, decoded["totalPremium"])
	s.Equal("PLN", decoded["currency"])
}

func (s *RedactSuite) TestNestedStructuresAreWalked() {
	payload := map[string]any{
		"outer": map[string]any{
			"items": []any{
				map[string]any{"pesel": "85032112345", "count": 2},
			},
		},
	}

	decoded := s.decode(Redact(payload))
	outer := decoded["outer"].(map[string]any)
	items := outer["items"].([]any)
	item := items[0].(map[string]any)
	s.Equal(MaskToken, item["pesel"])
	s.Equal(float64(2), item["count"])
}

func (s *RedactSuite) TestEdgeCases() {
	s.Run("nil redacts to nil", func() {
		s.Nil(Redact(nil))
	})

	s.Run("unmarshalable value redacts to null", func() {
		s.Equal(json.RawMessage("null"), Redact(func() {}))
	})

	s.Run("scalars pass through", func() {
		s.Equal(json.RawMessage(`"PL-2025-001"`), Redact("PL-2025-001"))
	})
}
