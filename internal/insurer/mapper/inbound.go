package mapper

import (
	"coverflow/internal/insurer/wire"
	"coverflow/internal/submission/models"
)

// OfferProjection is what a calculate or register response contributes to the
// submission record.
type OfferProjection struct {
	OfferID     string
	OfferStatus string
}

// ProjectOffer extracts the offer identity from a calculate response.
func ProjectOffer(resp wire.CalculateResponse) OfferProjection {
	return OfferProjection{OfferID: resp.OfferID, OfferStatus: resp.Status}
}

// ProjectRegistration extracts the offer identity from a register response.
func ProjectRegistration(resp wire.RegisterResponse) OfferProjection {
	return OfferProjection{OfferID: resp.OfferID, OfferStatus: resp.Status}
}

// PolicyProjection is what an issue response or a policy fetch contributes to
// the submission record.
type PolicyProjection struct {
	PolicyID         string
	PolicyNumber     string
	PolicyStatusCode string
	Status           models.Status
}

// ProjectIssue extracts policy identity from an issue response.
func ProjectIssue(resp wire.IssueResponse) PolicyProjection {
	return PolicyProjection{
		PolicyID:         resp.PolicyID,
		PolicyNumber:     resp.PolicyNumber,
		PolicyStatusCode: resp.Status,
		Status:           StatusFromPolicyCode(resp.Status),
	}
}

// ProjectPolicy extracts status from a fetched policy.
func ProjectPolicy(policy wire.Policy) PolicyProjection {
	return PolicyProjection{
		PolicyID:         policy.PolicyID,
		PolicyNumber:     policy.PolicyNumber,
		PolicyStatusCode: policy.Status,
		Status:           StatusFromPolicyCode(policy.Status),
	}
}

// policyStatusLookup is the fixed mapping from insurer policy status codes to
// internal submission statuses.
var policyStatusLookup = map[string]models.Status{
	"ACTIVE":    models.StatusAccepted,
	"NEW":       models.StatusIssued,
	"PENDING":   models.StatusIssued,
	"CANCELLED": models.StatusCancelled,
}

// StatusFromPolicyCode maps an insurer policy status code to the internal
// status. Unknown codes project to issued: the policy exists, its exact state
// is resolved by a later sync.
func StatusFromPolicyCode(code string) models.Status {
	if status, ok := policyStatusLookup[code]; ok {
		return status
	}
	return models.StatusIssued
}

// ExternalPersonIDs pairs returned person identifiers with their ordinals so
// the orchestrator can persist them on the participant links.
func ExternalPersonIDs(persons []wire.Person) map[int]string {
	out := make(map[int]string, len(persons))
	for _, p := range persons {
		if p.PersonID != "" {
			out[p.Lp] = p.PersonID
		}
	}
	return out
}
