package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"indentdesk/internal/analytics"
	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/exporter"
	"indentdesk/pkg/contracts/domain"
)

// DashboardHandler serves the KPI report and its exports
type DashboardHandler struct {
	service      DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Report)
	r.Get("/options", h.Options)
	return r
}

// ExportRoutes returns the report download routes
func (h *DashboardHandler) ExportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/report.csv", h.ExportCSV)
	r.Get("/report.xlsx", h.ExportXLSX)
	return r
}

// Report handles GET /api/v1/dashboard
func (h *DashboardHandler) Report(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := h.dashboard(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, dashboard)
}

// Options handles GET /api/v1/dashboard/options
func (h *DashboardHandler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, options)
}

// ExportCSV handles GET /api/v1/export/report.csv
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := h.dashboard(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="indent_report.csv"`)
	if err := exporter.WriteCSV(w, dashboard, exporter.CSVOptions{BOMPrefix: true}); err != nil {
		// headers are already sent
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

// ExportXLSX handles GET /api/v1/export/report.xlsx
func (h *DashboardHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := h.dashboard(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="indent_report.xlsx"`)
	if err := exporter.WriteXLSX(w, dashboard); err != nil {
		h.logger.ErrorContext(r.Context(), "xlsx export failed", slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) (domain.Dashboard, bool) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return domain.Dashboard{}, false
	}

	dashboard, err := h.service.Report(r.Context(), filters)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return domain.Dashboard{}, false
	}
	return dashboard, true
}

// ParseFilters reads startDate, endDate and the repeatable vendor and
// product parameters. Dates that are present must parse.
func ParseFilters(q url.Values) (domain.FilterSpec, error) {
	filters := domain.FilterSpec{
		StartDate: strings.TrimSpace(q.Get("startDate")),
		EndDate:   strings.TrimSpace(q.Get("endDate")),
		Vendors:   listParam(q, "vendor"),
		Products:  listParam(q, "product"),
	}

	var invalid []apierrors.ValidationError
	dates := []struct{ field, value string }{
		{"startDate", filters.StartDate},
		{"endDate", filters.EndDate},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, ok := analytics.ParseDate(d.value); !ok {
			invalid = append(invalid, apierrors.ValidationError{
				Field:   d.field,
				Message: fmt.Sprintf("%s must be an ISO-8601 date", d.field),
			})
		}
	}
	if len(invalid) > 0 {
		return domain.FilterSpec{}, apierrors.NewValidationErrors(invalid)
	}
	return filters, nil
}

// listParam drops blank values and keeps the rest verbatim, since sheet
// names are matched exactly
func listParam(q url.Values, name string) []string {
	var out []string
	for _, v := range q[name] {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
