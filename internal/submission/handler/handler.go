// Package handler is the thin HTTP layer over the submission orchestrator. It
// delegates to the service without embedding business logic so transport
// concerns stay isolated.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"coverflow/internal/audit"
	"coverflow/internal/submission/models"
	"coverflow/internal/submission/service"
	"coverflow/internal/submission/validate"
	"coverflow/pkg/domainerrors"
)

// Orchestrator is the slice of the submission service the handler uses.
type Orchestrator interface {
	Create(ctx context.Context, params service.CreateParams) (*models.Submission, error)
	Get(ctx context.Context, submissionID string) (*models.Submission, error)
	Validate(ctx context.Context, submissionID string) (validate.Result, error)
	Calculate(ctx context.Context, submissionID string) (*models.Submission, error)
	Register(ctx context.Context, submissionID, offerID string) (*models.Submission, error)
	Issue(ctx context.Context, submissionID, paymentMethodCode string) (*models.Submission, error)
	Sync(ctx context.Context, submissionID string) (*models.Submission, error)
	NotifyPayment(ctx context.Context, submissionID string, params service.PaymentParams) error
	Cancel(ctx context.Context, submissionID string) (*models.Submission, error)
}

// AuditReader exposes the audit trail for one submission.
type AuditReader interface {
	ListBySubmission(ctx context.Context, submissionID string) ([]audit.Entry, error)
}

// Handler handles submission endpoints.
type Handler struct {
	service  Orchestrator
	auditLog AuditReader
	logger   *slog.Logger
}

// New creates a submission Handler.
func New(svc Orchestrator, auditLog AuditReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, auditLog: auditLog, logger: logger}
}

// Register registers the submission routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/submissions", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Route("/{submissionID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Post("/validate", h.handleValidate)
			r.Post("/calculate", h.handleCalculate)
			r.Post("/register", h.handleRegister)
			r.Post("/issue", h.handleIssue)
			r.Post("/sync", h.handleSync)
			r.Post("/payment", h.handlePayment)
			r.Post("/cancel", h.handleCancel)
			r.Get("/audit", h.handleAudit)
		})
	})
}

type createRequest struct {
	TripID      string `json:"tripId"`
	ProductCode string `json:"productCode,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	sub, err := h.service.Create(r.Context(), service.CreateParams{
		TripID:      req.TripID,
		ProductCode: req.ProductCode,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, submissionResponse(sub))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Get(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submissionResponse(sub))
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Validate(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"valid":  result.Valid,
		"errors": result.Errors,
	})
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Calculate(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submissionResponse(sub))
}

type registerRequest struct {
	OfferID string `json:"offerId,omitempty"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	sub, err := h.service.Register(r.Context(), chi.URLParam(r, "submissionID"), req.OfferID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submissionResponse(sub))
}

type issueRequest struct {
	PaymentMethodCode string `json:"paymentMethodCode"`
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	sub, err := h.service.Issue(r.Context(), chi.URLParam(r, "submissionID"), req.PaymentMethodCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submissionResponse(sub))
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Sync(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submissionResponse(sub))
}

type paymentRequest struct {
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency,omitempty"`
	PaidAt   time.Time `json:"paidAt,omitempty"`
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	err := h.service.NotifyPayment(r.Context(), chi.URLParam(r, "submissionID"), service.PaymentParams{
		Amount:   req.Amount,
		Currency: req.Currency,
		PaidAt:   req.PaidAt,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Cancel(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submissionResponse(sub))
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditLog.ListBySubmission(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func submissionResponse(sub *models.Submission) map[string]any {
	return map[string]any{
		"id":                   sub.ID,
		"tripId":               sub.TripID,
		"status":               string(sub.Status),
		"participantCount":     sub.ParticipantCount,
		"externalOfferId":      sub.ExternalOfferID,
		"externalPolicyId":     sub.ExternalPolicyID,
		"externalPolicyNumber": sub.ExternalPolicyNumber,
		"productCode":          sub.ProductCode,
		"variantCode":          sub.VariantCode,
		"policyStatusCode":     sub.PolicyStatusCode,
		"errorMessage":         sub.ErrorMessage,
		"syncAttempts":         sub.SyncAttempts,
		"sentAt":               sub.SentAt,
		"createdAt":            sub.CreatedAt,
		"updatedAt":            sub.UpdatedAt,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates domain errors into the JSON error envelope. Validation
// failures additionally carry their field errors.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domainerrors.CodeOf(err)
	status := domainerrors.ToHTTPStatus(code)

	body := map[string]any{"error": string(code)}
	if code != domainerrors.CodeInternal {
		var de *domainerrors.Error
		if errors.As(err, &de) {
			body["error_description"] = de.Message
		}
	}
	var ve *validate.Error
	if errors.As(err, &ve) {
		body["validation_errors"] = ve.Errors
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
