// Package wire defines the insurer's JSON schema. Every operation has an
// explicit request/response pair; nothing crosses the HTTP boundary untyped.
package wire

// TokenRequest exchanges client credentials for an access token (POST /newToken).
type TokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token
// (POST /refreshToken).
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is returned by both token endpoints. ExpiresIn is seconds; some
// environments omit it, in which case the token's own exp claim is authoritative.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

// Address is one postal address attached to a person.
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber,omitempty"`
	City        string `json:"city"`
	ZipCode     string `json:"zipCode"`
	CountryCode string `json:"countryCode"`
}

// Person is one insured person. Lp carries the stable ordinal assigned at
// submission creation so the insurer can correlate persons across calculate,
// register and issue calls.
type Person struct {
	Lp                 int       `json:"lp"`
	PersonID           string    `json:"personId,omitempty"`
	Name               string    `json:"name"`
	Surname            string    `json:"surname"`
	BirthDate          string    `json:"birthDate"`
	CitizenshipCode    string    `json:"citizenshipCode"`
	Gender             string    `json:"gender,omitempty"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	PersonalIDTypeCode string    `json:"personalIdTypeCode,omitempty"`
	PersonalIDNumber   string    `json:"personalIdNumber,omitempty"`
	DocumentTypeCode   string    `json:"documentTypeCode,omitempty"`
	DocumentNumber     string    `json:"documentNumber,omitempty"`
	Addresses          []Address `json:"addresses,omitempty"`
}

// InsuranceParameters describes the trip being priced.
type InsuranceParameters struct {
	ProductCode       string `json:"productCode"`
	VariantCode       string `json:"variantCode,omitempty"`
	PaymentSchemeCode string `json:"paymentSchemeCode,omitempty"`
	StartDate         string `json:"insuranceStartDate"`
	EndDate           string `json:"insuranceEndDate"`
	DestinationRegion string `json:"destinationRegion"`
}

// Consent is one accepted consent sent with registration.
type Consent struct {
	Code     string `json:"code"`
	Accepted bool   `json:"accepted"`
}

// CalculateRequest prices an offer (POST /calculate/all/schemas).
type CalculateRequest struct {
	Parameters InsuranceParameters `json:"parameters"`
	Persons    []Person            `json:"persons"`
}

// CalculateResponse carries the priced offer.
type CalculateResponse struct {
	OfferID      string  `json:"offerId"`
	Status       string  `json:"status,omitempty"`
	TotalPremium float64 `json:"totalPremium,omitempty"`
	Currency     string  `json:"currency,omitempty"`
}

// RegisterRequest registers (POST /register) or updates (PUT /register) offer
// details prior to issuance.
type RegisterRequest struct {
	OfferID    string              `json:"offerId"`
	Parameters InsuranceParameters `json:"parameters"`
	Persons    []Person            `json:"persons"`
	Consents   []Consent           `json:"consents"`
}

// RegisterResponse acknowledges registration.
type RegisterResponse struct {
	OfferID string   `json:"offerId"`
	Status  string   `json:"status,omitempty"`
	Persons []Person `json:"persons,omitempty"`
}

// IssueRequest converts an offer into a policy (PUT /issue).
type IssueRequest struct {
	OfferID           string `json:"offerId"`
	PaymentMethodCode string `json:"paymentMethodCode"`
}

// IssueResponse identifies the issued policy.
type IssueResponse struct {
	PolicyID     string `json:"policyId"`
	PolicyNumber string `json:"policyNumber"`
	Status       string `json:"status,omitempty"`
}

// PaymentNotification informs the insurer of a payment event (POST /payment).
type PaymentNotification struct {
	PolicyNumber string  `json:"policyNumber"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	PaidAt       string  `json:"paidAt"`
}

// PaymentResponse acknowledges a payment notification.
type PaymentResponse struct {
	Status string `json:"status,omitempty"`
}

// Policy is the insurer's view of an issued policy (GET /policy).
type Policy struct {
	PolicyID     string   `json:"policyId"`
	PolicyNumber string   `json:"policyNumber"`
	Status       string   `json:"status"`
	StartDate    string   `json:"insuranceStartDate,omitempty"`
	EndDate      string   `json:"insuranceEndDate,omitempty"`
	Persons      []Person `json:"persons,omitempty"`
}

// PolicyListQuery parameterizes the paged policy search (GET /policies).
type PolicyListQuery struct {
	Page     int
	PageSize int
	Status   string
	DateFrom string
	DateTo   string
}

// PolicyList is one page of search results.
type PolicyList struct {
	Items    []Policy `json:"items"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
	Total    int      `json:"total"`
}

// PolicyDocument describes one issued document (GET /policyDocuments).
type PolicyDocument struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	TypeCode   string `json:"typeCode,omitempty"`
	URI        string `json:"uri"`
}

// DocumentLink is a signed, time-limited download URL (GET /document).
type DocumentLink struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Questionnaire is a product questionnaire definition (GET /questionnaires).
type Questionnaire struct {
	Code      string              `json:"code"`
	Name      string              `json:"name,omitempty"`
	Questions []QuestionnaireItem `json:"questions,omitempty"`
}

// QuestionnaireItem is one question within a questionnaire.
type QuestionnaireItem struct {
	Code     string `json:"code"`
	Text     string `json:"text"`
	Required bool   `json:"required,omitempty"`
}

// ConsentDefinition is a required consent definition (GET /consents).
type ConsentDefinition struct {
	Code     string `json:"code"`
	Content  string `json:"content,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// ErrorBody is the insurer's error envelope. Non-JSON error responses fall back
// to the raw text in Message.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Personal document and consent codes fixed by the insurer contract.
const (
	PersonalIDTypePESEL = "PESEL"

	ConsentCodeGeneral = "GENERAL"
	ConsentCodeGDPR    = "GDPR"
)
