package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"coverflow/internal/insurer/wire"
)

// CalculateOffer prices an offer for the given persons, dates and parameters.
func (c *Client) CalculateOffer(ctx context.Context, req wire.CalculateRequest) (wire.CalculateResponse, error) {
	return execute[wire.CalculateResponse](ctx, c, "calculate", http.MethodPost, "/calculate/all/schemas", nil, req)
}

// RegisterPolicy registers offer details prior to issuance.
func (c *Client) RegisterPolicy(ctx context.Context, req wire.RegisterRequest) (wire.RegisterResponse, error) {
	return execute[wire.RegisterResponse](ctx, c, "register", http.MethodPost, "/register", nil, req)
}

// UpdatePolicy updates an already registered offer.
func (c *Client) UpdatePolicy(ctx context.Context, req wire.RegisterRequest) (wire.RegisterResponse, error) {
	return execute[wire.RegisterResponse](ctx, c, "update", http.MethodPut, "/register", nil, req)
}

// IssuePolicy converts an offer into a policy.
func (c *Client) IssuePolicy(ctx context.Context, req wire.IssueRequest) (wire.IssueResponse, error) {
	return execute[wire.IssueResponse](ctx, c, "issue", http.MethodPut, "/issue", nil, req)
}

// NotifyPayment informs the insurer of a payment event.
func (c *Client) NotifyPayment(ctx context.Context, req wire.PaymentNotification) (wire.PaymentResponse, error) {
	return execute[wire.PaymentResponse](ctx, c, "payment", http.MethodPost, "/payment", nil, req)
}

// GetPolicy fetches current policy status and details.
func (c *Client) GetPolicy(ctx context.Context, policyNumber string) (wire.Policy, error) {
	q := url.Values{"policyNumber": {policyNumber}}
	return execute[wire.Policy](ctx, c, "get_policy", http.MethodGet, "/policy", q, nil)
}

// ListPolicies runs a paged policy search.
func (c *Client) ListPolicies(ctx context.Context, query wire.PolicyListQuery) (wire.PolicyList, error) {
	q := url.Values{}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(query.PageSize))
	}
	if query.Status != "" {
		q.Set("status", query.Status)
	}
	if query.DateFrom != "" {
		q.Set("dateFrom", query.DateFrom)
	}
	if query.DateTo != "" {
		q.Set("dateTo", query.DateTo)
	}
	return execute[wire.PolicyList](ctx, c, "list_policies", http.MethodGet, "/policies", q, nil)
}

// GetPolicyDocuments lists issued documents for a policy.
func (c *Client) GetPolicyDocuments(ctx context.Context, policyID string) ([]wire.PolicyDocument, error) {
	q := url.Values{"policyID": {policyID}}
	return execute[[]wire.PolicyDocument](ctx, c, "policy_documents", http.MethodGet, "/policyDocuments", q, nil)
}

// GetDocumentLink resolves a signed download URL for a document URI.
func (c *Client) GetDocumentLink(ctx context.Context, uri string) (wire.DocumentLink, error) {
	q := url.Values{"uri": {uri}}
	return execute[wire.DocumentLink](ctx, c, "document_link", http.MethodGet, "/document", q, nil)
}

// GetQuestionnaires fetches product questionnaire definitions.
func (c *Client) GetQuestionnaires(ctx context.Context, productCode string) ([]wire.Questionnaire, error) {
	q := url.Values{}
	if productCode != "" {
		q.Set("productCode", productCode)
	}
	return execute[[]wire.Questionnaire](ctx, c, "questionnaires", http.MethodGet, "/questionnaires", q, nil)
}

// GetConsents fetches required consent definitions.
func (c *Client) GetConsents(ctx context.Context, productCode string) ([]wire.ConsentDefinition, error) {
	q := url.Values{}
	if productCode != "" {
		q.Set("productCode", productCode)
	}
	return execute[[]wire.ConsentDefinition](ctx, c, "consents", http.MethodGet, "/consents", q, nil)
}
