package httpserver

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

// HTTPError is a request problem the transport itself detected.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func badRequest(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: msg}
}

// statusFor derives the response status from err. Unknown errors are 500.
func statusFor(err error) int {
	var he *HTTPError
	switch {
	case errors.As(err, &he):
		return he.Status
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail is the single exit for errors that end a request. Diagnostics are
// only shown outside production.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ev := log.Warn()
	if status >= 500 {
		ev = log.Error()
	}
	ev.Err(err).
		Int("status", status).
		Str("error_type", observability.LabelErr(err)).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("request failed")

	v := h.view(r, http.StatusText(status))
	v.Status = status
	v.Message = http.StatusText(status)
	if status < 500 {
		var he *HTTPError
		if errors.As(err, &he) {
			v.Message = he.Message
		}
	}
	if !h.Production {
		v.Detail = err.Error()
	}
	name := "error"
	if status == http.StatusNotFound {
		name = "not_found"
	}
	h.renderStatus(w, r, status, name, v)
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, &HTTPError{Status: http.StatusNotFound, Message: "Page not found"})
}
