package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"indentdesk/internal/auth"
	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/middleware"
	"indentdesk/internal/workflow"
	api "indentdesk/pkg/contracts/api/v1"
	"indentdesk/pkg/contracts/domain"
)

type stageKey struct{}

// IndentHandler serves the stage queues and the workflow actions
type IndentHandler struct {
	service      IndentService
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewIndentHandler creates an indent handler
func NewIndentHandler(service IndentService, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *IndentHandler {
	return &IndentHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("handler", "indents")),
		errorHandler: errorHandler,
	}
}

// Routes returns the indent routes. Stage queues need the stage's view
// permission and actions need its action permission.
func (h *IndentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	perm := func(p domain.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.errorHandler, p)
	}

	r.Get("/notifications", h.Notifications)
	r.With(perm(domain.PermCreateIndent)).Post("/", h.Create)

	// {id} is a stage name for the queues and an indent number for the
	// actions
	r.Route("/{id}", func(r chi.Router) {
		r.With(h.StageCtx).Get("/pending", h.Pending)
		r.With(h.StageCtx).Get("/history", h.History)

		r.Group(func(r chi.Router) {
			r.Use(h.NumberCtx)
			r.With(perm(workflow.StageIndentApproval.ActionPermission())).Post("/approve", h.Approve)
			r.With(perm(workflow.StageVendorUpdate.ActionPermission())).Post("/vendors", h.UpdateVendors)
			r.With(perm(workflow.StageThreePartyApproval.ActionPermission())).Post("/rate", h.ApproveRate)
			r.With(perm(workflow.StageThreePartyApproval.ActionPermission())).Patch("/rate", h.UpdateRate)
			r.With(perm(workflow.StageStoreOut.ActionPermission())).Post("/store-out", h.StoreOut)
		})
	})

	return r
}

// StageCtx parses the stage and checks its view permission
func (h *IndentHandler) StageCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stage, err := workflow.ParseStage(chi.URLParam(r, "id"))
		if err != nil {
			h.errorHandler.HandleError(w, r, serviceError(err))
			return
		}

		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
			return
		}
		if !claims.Has(stage.ViewPermission()) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusForbidden,
				apierrors.CodeForbidden,
				"Access denied",
				map[string]interface{}{"required_any": []domain.Permission{stage.ViewPermission()}},
			))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), stageKey{}, stage)))
	})
}

// NumberCtx validates the indent number path parameter
func (h *IndentHandler) NumberCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		number := strings.TrimSpace(chi.URLParam(r, "id"))
		if !strings.HasPrefix(number, workflow.IndentPrefix) || len(number) == len(workflow.IndentPrefix) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("number", "Indent number must look like "+workflow.IndentPrefix+"0001"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func stageFrom(r *http.Request) workflow.Stage {
	stage, _ := r.Context().Value(stageKey{}).(workflow.Stage)
	return stage
}

// Pending handles GET /api/v1/indents/{stage}/pending
func (h *IndentHandler) Pending(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Pending(r.Context(), stageFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, rows)
}

// History handles GET /api/v1/indents/{stage}/history
func (h *IndentHandler) History(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.History(r.Context(), stageFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, rows)
}

// Notifications handles GET /api/v1/indents/notifications
func (h *IndentHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Notifications(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, counts)
}

// Create handles POST /api/v1/indents
func (h *IndentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateIndentRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.Create(r.Context(), req, username(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusCreated, resp)
}

// Approve handles POST /api/v1/indents/{number}/approve
func (h *IndentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req api.ApproveIndentRequest
	action(h, w, r, &req, h.service.Approve)
}

// UpdateVendors handles POST /api/v1/indents/{number}/vendors
func (h *IndentHandler) UpdateVendors(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateVendorsRequest
	action(h, w, r, &req, h.service.UpdateVendors)
}

// ApproveRate handles POST /api/v1/indents/{number}/rate
func (h *IndentHandler) ApproveRate(w http.ResponseWriter, r *http.Request) {
	var req api.ApproveRateRequest
	action(h, w, r, &req, h.service.ApproveRate)
}

// UpdateRate handles PATCH /api/v1/indents/{number}/rate
func (h *IndentHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateRateRequest
	action(h, w, r, &req, h.service.UpdateRate)
}

// StoreOut handles POST /api/v1/indents/{number}/store-out
func (h *IndentHandler) StoreOut(w http.ResponseWriter, r *http.Request) {
	var req api.StoreOutRequest
	action(h, w, r, &req, h.service.StoreOut)
}

type actionFunc[T any] func(ctx context.Context, number string, req T, by string) (api.IndentResponse, error)

// action decodes the request body and runs a workflow action on the indent
// named in the path
func action[T any](h *IndentHandler, w http.ResponseWriter, r *http.Request, req *T, fn actionFunc[T]) {
	if err := h.validator.DecodeAndValidate(r, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := fn(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")), *req, username(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, resp)
}
