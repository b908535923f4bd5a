package errors

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling for HTTP handlers.
type ErrorHandler struct {
	logger        *slog.Logger
	includeDetail bool
}

// NewErrorHandler creates a new error handler. When includeDetail is false,
// internal error causes are logged but not echoed to the client.
func NewErrorHandler(logger *slog.Logger, includeDetail bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:        logger.With(slog.String("component", "error_handler")),
		includeDetail: includeDetail,
	}
}

// HandleError maps any error to an APIError and writes the response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	apiErr := h.toAPIError(r.Context(), err)
	render.Render(w, r, NewErrorResponse(apiErr))
}

// toAPIError converts arbitrary errors into client-facing APIErrors.
func (h *ErrorHandler) toAPIError(ctx context.Context, err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return New(http.StatusGatewayTimeout, "TIMEOUT", "Request timed out")
	}
	if stderrors.Is(err, context.Canceled) {
		return New(499, "CLIENT_CLOSED", "Client closed request")
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeValidation:
			return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", appErr.Message, h.detail(appErr))
		case ErrTypeParsing:
			return NewWithDetails(http.StatusUnprocessableEntity, "BAD_INPUT", appErr.Message, h.detail(appErr))
		case ErrTypeNotFound:
			return New(http.StatusNotFound, "NOT_FOUND", appErr.Message)
		case ErrTypeConfig, ErrTypeStorage:
			return ErrInternalServer
		}
	}

	return ErrInternalServer
}

func (h *ErrorHandler) detail(appErr *AppError) interface{} {
	if !h.includeDetail || appErr.Cause == nil {
		return nil
	}
	return appErr.Cause.Error()
}
