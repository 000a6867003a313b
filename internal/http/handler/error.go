package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/auth"
	"catalogapi/internal/http/middleware"
	"catalogapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_FAILED", "NOT_FOUND")
// - message: human-readable safe message
// - fields: offending form fields, if any
func writeError(c *fiber.Ctx, status int, code, message string, fields ...string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a catalog workflow error onto the response envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", ve.Reason, ve.Fields...)
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrTitleTaken):
		return writeError(c, fiber.StatusConflict, "TITLE_TAKEN", err.Error(), "title")
	case errors.Is(err, service.ErrTagExists):
		return writeError(c, fiber.StatusConflict, "TAG_EXISTS", err.Error(), "name")
	case errors.Is(err, service.ErrDuplicateReview):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_REVIEW", err.Error())
	case errors.Is(err, auth.ErrUnauthenticated):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
	case errors.Is(err, auth.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "insufficient role")
	case errors.Is(err, service.ErrTransientConflict):
		c.Set(fiber.HeaderRetryAfter, "1")
		return writeError(c, fiber.StatusServiceUnavailable, "CONFLICT_RETRY", err.Error())
	case errors.Is(err, service.ErrUnavailable):
		c.Set(fiber.HeaderRetryAfter, "1")
		return writeError(c, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", service.ErrUnavailable.Error())
	case errors.Is(err, service.ErrCommit):
		return writeError(c, fiber.StatusInternalServerError, "COMMIT_FAILED", service.ErrCommit.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return writeError(c, fiber.StatusGatewayTimeout, "TIMEOUT", "request timed out")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHENTICATED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "upload too large", "file")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
