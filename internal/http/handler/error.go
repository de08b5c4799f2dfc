package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/encarrerauy/encarreraok/internal/http/middleware"
	"github.com/encarrerauy/encarreraok/internal/intake"
	"github.com/encarrerauy/encarreraok/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Category   string `json:"category,omitempty"`
	LimitBytes int64  `json:"limit_bytes,omitempty"`
	Label      string `json:"label,omitempty"`
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
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeDomainError maps a service or intake error to the standardized
// response. Internal failures collapse to a generic 500 so storage paths and
// driver details never reach the client.
func writeDomainError(c *fiber.Ctx, err error) error {
	var sizeErr *intake.SizeError
	if errors.As(err, &sizeErr) {
		res := errorPayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Code:       "PAYLOAD_TOO_LARGE",
				Message:    "evidence exceeds the size limit for its category",
				Category:   string(sizeErr.Category),
				LimitBytes: sizeErr.Limit,
			},
		}
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(res)
	}

	var missing *service.MissingEvidenceError
	if errors.As(err, &missing) {
		res := errorPayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Code:    "EVIDENCE_REQUIRED",
				Message: "required evidence is missing",
				Label:   missing.Label,
			},
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	}

	var orphaned *service.OrphanedEvidenceError
	if errors.As(err, &orphaned) {
		return writeError(c, fiber.StatusConflict, "EVIDENCE_ORPHANED",
			"some evidence files could not be removed; retry the delete")
	}

	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrNameRequired):
		return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "participant name is required")
	case errors.Is(err, service.ErrDocumentRequired):
		return writeError(c, fiber.StatusBadRequest, "DOCUMENT_REQUIRED", "document number is required")
	case errors.Is(err, service.ErrTextRequired):
		return writeError(c, fiber.StatusBadRequest, "TEXT_REQUIRED", "disclaimer text is required")
	case errors.Is(err, service.ErrNotAccepted):
		return writeError(c, fiber.StatusBadRequest, "NOT_ACCEPTED", "acceptance checkbox must be checked")
	case errors.Is(err, intake.ErrUnsupportedCategory):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_CATEGORY", "unsupported evidence category")
	case errors.Is(err, service.ErrEventNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "event not found")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrEventInactive):
		return writeError(c, fiber.StatusConflict, "EVENT_INACTIVE", "event no longer accepts submissions")
	case errors.Is(err, service.ErrNoActiveVersion):
		return writeError(c, fiber.StatusConflict, "NO_ACTIVE_DISCLAIMER", "event has no active disclaimer version")
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
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
