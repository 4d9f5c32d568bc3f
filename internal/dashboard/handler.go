// Package dashboard serves the dashboard page and the raw dataset endpoints.
package dashboard

import (
	"net/http"

	"github.com/bissquit/aiops-garden/internal/domain"
	"github.com/bissquit/aiops-garden/internal/pkg/ctxlog"
	"github.com/bissquit/aiops-garden/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// DatasetReader provides read access to all dashboard datasets.
type DatasetReader interface {
	Incidents() []domain.Incident
	SelfHealingLogs() []domain.SelfHealingLogEntry
	ReleaseNotes() []domain.ReleaseNote
	RiskScores() domain.RiskScores
}

// Handler handles HTTP requests for the dashboard module.
type Handler struct {
	data DatasetReader
	page *Page
}

// NewHandler creates a new dashboard handler.
func NewHandler(data DatasetReader, page *Page) *Handler {
	return &Handler{
		data: data,
		page: page,
	}
}

// RegisterRoutes registers the page and dataset routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/incidents", h.ListIncidents)
	r.Get("/self-healing", h.ListSelfHealingLogs)
	r.Get("/release-notes", h.ListReleaseNotes)
	r.Get("/risk", h.ListRiskScores)
}

// Index handles GET / request.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	body, err := h.page.Render(PageData{
		Incidents:       h.data.Incidents(),
		SelfHealingLogs: h.data.SelfHealingLogs(),
		ReleaseNotes:    h.data.ReleaseNotes(),
		RiskScores:      h.data.RiskScores().Entries(),
	})
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("render dashboard page", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httputil.HTML(w, http.StatusOK, body)
}

// ListIncidents handles GET /incidents request.
func (h *Handler) ListIncidents(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, h.data.Incidents())
}

// ListSelfHealingLogs handles GET /self-healing request.
func (h *Handler) ListSelfHealingLogs(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, h.data.SelfHealingLogs())
}

// ListReleaseNotes handles GET /release-notes request.
func (h *Handler) ListReleaseNotes(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, h.data.ReleaseNotes())
}

// ListRiskScores handles GET /risk request.
func (h *Handler) ListRiskScores(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, h.data.RiskScores())
}
