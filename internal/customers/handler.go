package customers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Handler manages customer risk endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers customer risk routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/risk", h.listAssessments)
	r.Get("/{id}/risk", h.showAssessment)
	r.Post("/{id}/orders/validate", h.validateOrder)
}

// showAssessment returns one customer's credit assessment.
func (h *Handler) showAssessment(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	assessment, err := h.service.AssessCustomer(r.Context(), shared.TenantFromContext(r.Context()), chi.URLParam(r, "id"), asOf)
	if err != nil {
		h.logger.Error("assess customer", slog.Any("error", err), slog.String("customer_id", chi.URLParam(r, "id")))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, assessment)
}

// listAssessments returns the whole tenant's risk portfolio.
func (h *Handler) listAssessments(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	assessments, err := h.service.AssessAll(r.Context(), shared.TenantFromContext(r.Context()), asOf)
	if err != nil {
		h.logger.Error("assess portfolio", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"assessments": assessments})
}

type validateOrderPayload struct {
	Total       float64 `json:"total" validate:"required,gt=0"`
	PaymentTerm string  `json:"paymentTerm" validate:"omitempty,max=40"`
}

// validateOrder gates a proposed sales order.
func (h *Handler) validateOrder(w http.ResponseWriter, r *http.Request) {
	var payload validateOrderPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	check, err := h.service.ValidateOrder(r.Context(), shared.TenantFromContext(r.Context()), chi.URLParam(r, "id"), OrderRequest{
		Total:       payload.Total,
		PaymentTerm: payload.PaymentTerm,
	})
	if err != nil {
		h.logger.Error("validate order", slog.Any("error", err), slog.String("customer_id", chi.URLParam(r, "id")))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, check)
}

func parseAsOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Time{}, nil
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, httpx.ErrValidation
	}
	return asOf, nil
}
