package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docissuer/internal/http/middleware"
	"docissuer/internal/model"
	"docissuer/internal/numbering"
	"docissuer/internal/render"
	"docissuer/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeFieldError(c, status, code, message, "")
}

func writeFieldError(c *fiber.Ctx, status int, code, message, field string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service and domain errors into the envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	var fe *model.FieldError
	switch {
	case errors.As(err, &fe):
		return writeFieldError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", fe.Error(), fe.Field)
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrCertificateIDRequired):
		return writeFieldError(c, fiber.StatusBadRequest, "CERTIFICATE_ID_REQUIRED", "certificate id is required", "certificate_id")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrArtifactNotFound):
		return writeError(c, fiber.StatusNotFound, "ARTIFACT_NOT_FOUND", "pdf file not found")
	case errors.Is(err, numbering.ErrAllocationConflict):
		c.Set(fiber.HeaderRetryAfter, "1")
		return writeError(c, fiber.StatusServiceUnavailable, "ALLOCATION_CONFLICT", "document number allocation is busy, retry")
	case errors.Is(err, numbering.ErrSequenceExhausted):
		return writeError(c, fiber.StatusConflict, "SEQUENCE_EXHAUSTED", "no document numbers left for this year")
	case errors.Is(err, render.ErrUnsupportedDocumentVariant):
		return writeError(c, fiber.StatusInternalServerError, "UNSUPPORTED_DOCUMENT_VARIANT", "unsupported document variant")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
