package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"otta/internal/audit"
	apierrors "otta/internal/errors"
	"otta/internal/services"
	v1 "otta/pkg/contracts/api/v1"
)

// AuditHandler handles audit run HTTP requests
type AuditHandler struct {
	service      *services.AuditService
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(service *services.AuditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		service:      service,
		validator:    validator.New(),
		logger:       logger.With(slog.String("handler", "audit")),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// Routes returns the audit route tree
func (h *AuditHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.RunAudit)
	r.Get("/", h.ListRuns)
	r.Get("/{runID}", h.GetResult)
	return r
}

// RunAudit handles POST /api/audit
func (h *AuditHandler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req v1.AuditRunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("start_date", "must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("end_date", "must be YYYY-MM-DD"))
		return
	}
	if start.After(end) {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidDateRange)
		return
	}

	h.logger.InfoContext(ctx, "audit run requested",
		slog.String("shipment_file", req.ShipmentFile),
		slog.String("start", req.StartDate),
		slog.String("end", req.EndDate))

	result, err := h.service.Run(ctx, audit.RunInput{
		ShipmentFile:  req.ShipmentFile,
		TariffFile:    req.TariffFile,
		ExclusionFile: req.ExclusionFile,
		RemapFile:     req.RemapFile,
		Start:         start,
		End:           end,
		TopPercent:    req.TopPercent,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, v1.AuditRunResponse{
		RunID:    result.RunID,
		Metrics:  result.Metrics,
		Warnings: result.Warnings,
	})
}

// GetResult handles GET /api/audit/{runID}
func (h *AuditHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	result, err := h.service.GetResult(runID)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrRunNotFound)
		return
	}

	render.JSON(w, r, v1.AuditResultResponse{
		RunID:       result.RunID,
		Metrics:     result.Metrics,
		Loads:       result.Loads,
		Lanes:       result.Lanes,
		TopCarriers: result.TopCarriers,
		WeeklyTrend: result.WeeklyTrend,
		Warnings:    result.Warnings,
	})
}

// ListRuns handles GET /api/audit
func (h *AuditHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"runs": h.service.ListRuns(),
	})
}
