package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"vehicle-insurance-service/internal/httputil"
)

// statusForError maps service error text onto an HTTP status. Services phrase
// their errors consistently ("not found", "expired", "already", ...) so the
// handler layer can stay free of error type plumbing.
func statusForError(err error) (int, string) {
	msg := err.Error()

	if strings.Contains(msg, "not found") {
		return http.StatusNotFound, "NOT_FOUND"
	}

	for _, marker := range []string{
		"expired", "already", "invalid", "required", "cannot",
		"exceeds", "not active", "does not belong", "locked",
		"outside", "within", "no unpaid bill", "payable claims",
	} {
		if strings.Contains(msg, marker) {
			return http.StatusBadRequest, "INVALID_REQUEST"
		}
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func respondError(c fiber.Ctx, err error) error {
	status, code := statusForError(err)
	return c.Status(status).JSON(httputil.CreateErrorResponse(code, err.Error()))
}

func parseUUIDParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

func badParam(c fiber.Ctx, name string) error {
	return c.Status(http.StatusBadRequest).JSON(
		httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid "+name))
}
