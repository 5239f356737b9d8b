package workdays

import (
	"errors"
	"net/http"

	"github.com/wolfman30/working-days-api/internal/holidays"
	"github.com/wolfman30/working-days-api/internal/timezone"
)

// ErrInvalidParameters marks any request validation failure.
var ErrInvalidParameters = errors.New("invalid parameters")

// Error codes returned in JSON error bodies.
const (
	CodeInvalidParameters = "InvalidParameters"
	CodeExternalAPI       = "ExternalApiError"
	CodeInternal          = "InternalError"
)

const externalAPIMessage = "Unable to fetch holiday data from external service"

// ErrorCode maps an error onto the service error taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParameters), errors.Is(err, timezone.ErrInvalidDateFormat):
		return CodeInvalidParameters
	case errors.Is(err, holidays.ErrExternalAPI):
		return CodeExternalAPI
	default:
		return CodeInternal
	}
}

// StatusCode returns the HTTP status for an error.
func StatusCode(err error) int {
	switch ErrorCode(err) {
	case CodeInvalidParameters:
		return http.StatusBadRequest
	case CodeExternalAPI:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the message exposed to clients. Internal failures do not
// leak details.
func publicMessage(err error) string {
	switch ErrorCode(err) {
	case CodeInvalidParameters:
		return err.Error()
	case CodeExternalAPI:
		return externalAPIMessage
	default:
		return "An internal error occurred while processing the request"
	}
}
