package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/adapter/http/dto"
	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

const (
	// IdempotencyKeyHeader carries the caller's idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayHeader marks a response that repeats an earlier outcome.
	ReplayHeader = "X-Idempotency-Replay"
)

// errMalformedBody marks a request body that is not valid JSON.
var errMalformedBody = errors.New("malformed request body")

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError classifies err and writes the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := errorResponse(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		if status == http.StatusInternalServerError {
			resp.Message = "internal server error"
		}
	}
	writeJSON(w, status, resp)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "invalid_request",
			Kind:    string(domain.KindValidation),
			Message: verr.Error(),
			Fields:  verr.Fields,
		}
	}

	if errors.Is(err, errMalformedBody) {
		return http.StatusBadRequest, dto.ErrorResponse{
			Error:   "malformed_json",
			Kind:    string(domain.KindValidation),
			Message: err.Error(),
		}
	}

	if errors.Is(err, usecase.ErrInconsistentLedger) {
		return http.StatusConflict, dto.ErrorResponse{
			Error:   "inconsistent_ledger",
			Kind:    string(domain.KindConflict),
			Message: err.Error(),
		}
	}

	return mapDomainError(err), dto.ErrorResponse{
		Error:   domain.CodeOf(err),
		Kind:    string(domain.KindOf(err)),
		Message: err.Error(),
	}
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSelfApprovalForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrIdempotencyKeyRequired):
		return http.StatusBadRequest
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindTransient:
		return http.StatusServiceUnavailable
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the body into req and validates it.
func decodeJSON(r *http.Request, req any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return dto.Validate(req)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery parses an optional RFC3339 query parameter.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, &dto.ValidationError{Fields: []dto.FieldError{{Field: key, Rule: "rfc3339"}}}
	}
	t = t.UTC()
	return &t, nil
}

// parseBoolQuery parses an optional boolean query parameter.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, &dto.ValidationError{Fields: []dto.FieldError{{Field: key, Rule: "boolean"}}}
	}
	return &b, nil
}

func optionalQuery(r *http.Request, key string) *string {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil
	}
	return &val
}

// idempotencyKey returns the request's idempotency key, or "".
func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
}

// actingUser prefers the authenticated actor over an identity named in the
// request body.
func actingUser(r *http.Request, fromBody string) string {
	return domain.ActorID(r.Context(), strings.TrimSpace(fromBody))
}

// writeResult answers status for a new outcome and 200 with the replay
// header when the outcome was recorded by an earlier request.
func writeResult(w http.ResponseWriter, status int, replayed bool, data any) {
	if replayed {
		w.Header().Set(ReplayHeader, "true")
		status = http.StatusOK
	}
	writeJSON(w, status, data)
}
