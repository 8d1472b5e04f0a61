package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Unclassified errors are
// reported without detail; a DomainError also reports its code.
func writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		writeJSON(w, code, errorResponse{Error: errors.ErrInternal.Error()})
		return
	}

	resp := errorResponse{Error: err.Error()}
	var domain *errors.DomainError
	if errors.As(err, &domain) {
		resp.Code = domain.Code
	}
	writeJSON(w, code, resp)
}

func statusCode(err error) int {
	var validation *errors.ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, errors.ErrInvalidInput),
		errors.Is(err, errors.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, errors.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrUnavailable), errors.Is(err, errors.ErrNewsUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "decode request body: %v", err)
	}
	return nil
}
