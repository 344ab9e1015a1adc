package projects

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Handler manages project costing endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers project costing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/costing", h.showPortfolio)
	r.Get("/{id}/costing", h.showProjectCosting)
}

// showProjectCosting returns one project's profitability rollup.
func (h *Handler) showProjectCosting(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ProjectCosting(r.Context(), shared.TenantFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("project costing", slog.Any("error", err), slog.String("project_id", chi.URLParam(r, "id")))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// showPortfolio returns the whole tenant's portfolio rollup.
func (h *Handler) showPortfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PortfolioCosting(r.Context(), shared.TenantFromContext(r.Context()))
	if err != nil {
		h.logger.Error("portfolio costing", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
