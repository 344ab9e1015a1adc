package receivables

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-erp/internal/finance/aging"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Handler manages receivable endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers receivable routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listExposure)
	r.Get("/summary", h.showSummary)
}

type listQuery struct {
	Query  string `validate:"omitempty,max=120"`
	Bucket string `validate:"omitempty,oneof=overdue due_soon current"`
	AsOf   string `validate:"omitempty,datetime=2006-01-02"`
}

// listExposure returns the aged receivable list for the tenant.
func (h *Handler) listExposure(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseListRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	view, err := h.service.BuildExposure(r.Context(), shared.TenantFromContext(r.Context()), req)
	if err != nil {
		h.logger.Error("list receivables", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, view)
}

// showSummary returns only the bucket totals.
func (h *Handler) showSummary(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseListRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	view, err := h.service.BuildExposure(r.Context(), shared.TenantFromContext(r.Context()), req)
	if err != nil {
		h.logger.Error("summarize receivables", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, view.Summary)
}

func (h *Handler) parseListRequest(r *http.Request) (ListRequest, error) {
	q := listQuery{
		Query:  r.URL.Query().Get("q"),
		Bucket: r.URL.Query().Get("bucket"),
		AsOf:   r.URL.Query().Get("as_of"),
	}
	if err := h.validator.Struct(q); err != nil {
		return ListRequest{}, httpx.ErrValidation
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	req := ListRequest{
		Query:       q.Query,
		Bucket:      aging.Bucket(q.Bucket),
		Deduplicate: r.URL.Query().Get("dedupe") == "true",
		Page:        page,
		PerPage:     perPage,
	}
	if q.AsOf != "" {
		asOf, err := time.Parse("2006-01-02", q.AsOf)
		if err != nil {
			return ListRequest{}, httpx.ErrValidation
		}
		req.AsOf = asOf
	}
	return req, nil
}
