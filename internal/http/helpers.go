package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"

	"tracker/internal/core"
	"tracker/internal/log"
)

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	return stripControl(strings.TrimSpace(s))
}

// stripControl drops control characters other than tab and newlines and
// leaves surrounding whitespace alone.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// pathID parses the {id} path segment. A malformed ID addresses nothing.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, core.ErrNotFound
	}
	return id, nil
}

// errorFor maps a domain error to its response. Unknown errors are logged
// and reported as 500 without detail.
func errorFor(r *http.Request, err error) *JSONResponseBuilder {
	if ve, ok := core.IsValidation(err); ok {
		return ValidationErrorResponse(ve)
	}
	switch {
	case errors.Is(err, core.ErrNotFound):
		return NotFoundError("transaction not found")
	case errors.Is(err, core.ErrIndexOutOfRange):
		return NotFoundError("position out of range")
	}

	log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err.Error())
	return InternalServerError("internal error")
}
