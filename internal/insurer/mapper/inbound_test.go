package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coverflow/internal/insurer/wire"
	"coverflow/internal/submission/models"
)

func TestStatusFromPolicyCode(t *testing.T) {
	cases := []struct {
		code string
		want models.Status
	}{
		{"ACTIVE", models.StatusAccepted},
		{"NEW", models.StatusIssued},
		{"PENDING", models.StatusIssued},
		{"CANCELLED", models.StatusCancelled},
		{"SOMETHING_ELSE", models.StatusIssued},
		{"", models.StatusIssued},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFromPolicyCode(tc.code), "code %q", tc.code)
	}
}

func TestProjectPolicy(t *testing.T) {
	projection := ProjectPolicy(wire.Policy{
		PolicyID:     "pol-1",
		PolicyNumber: "PL-2025-001",
		Status:       "ACTIVE",
	})
	assert.Equal(t, "pol-1", projection.PolicyID)
	assert.Equal(t, "PL-2025-001", projection.PolicyNumber)
	assert.Equal(t, "ACTIVE", projection.PolicyStatusCode)
	assert.Equal(t, models.StatusAccepted, projection.Status)
}

func TestExternalPersonIDs(t *testing.T) {
	ids := ExternalPersonIDs([]wire.Person{
		{Lp: 1, PersonID: "ext-1"},
		{Lp: 2},
		{Lp: 3, PersonID: "ext-3"},
	})
	assert.Equal(t, map[int]string{1: "ext-1", 3: "ext-3"}, ids)
}
