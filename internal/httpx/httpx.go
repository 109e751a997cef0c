// Package httpx holds the JSON plumbing shared by the HTTP handlers and the
// gateway: wire timestamps, caller identity, body decoding with validation,
// paging parameters and error responses.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shareit/internal/apperr"
)

// UserHeader carries the calling user's id.
const UserHeader = "X-Sharer-User-Id"

const (
	DefaultFrom = 0
	DefaultSize = 10
)

var validate = validator.New()

// Validator returns the shared validator so callers can register struct rules.
func Validator() *validator.Validate {
	return validate
}

// UserID reads the caller identity header.
func UserID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Header.Get(UserHeader))
	if raw == "" {
		return uuid.Nil, apperr.New(apperr.CodeValidation, "missing %s header", UserHeader)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.CodeValidation, "malformed %s header: %v", UserHeader, err)
	}
	return id, nil
}

// PathID parses a uuid path parameter value.
func PathID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.CodeValidation, "malformed %s: %q", name, raw)
	}
	return id, nil
}

// Decode reads a JSON body into v and runs struct validation on it.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.New(apperr.CodeValidation, "invalid JSON: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		return apperr.New(apperr.CodeValidation, "%s", describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// PageParams reads from and size, applying defaults. Range checks belong to
// the services.
func PageParams(r *http.Request) (from, size int, err error) {
	q := r.URL.Query()
	if from, err = intParam(q.Get("from"), DefaultFrom); err != nil {
		return 0, 0, err
	}
	if size, err = intParam(q.Get("size"), DefaultSize); err != nil {
		return 0, 0, err
	}
	return from, size, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.New(apperr.CodeValidation, "not an integer: %q", raw)
	}
	return n, nil
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError maps err to a status and writes the error body. Errors without a
// code are logged and reported as internal.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := StatusFor(err)
	code := apperr.CodeOf(err)
	body := ErrorBody{Error: string(code), Message: apperr.MessageOf(err)}
	if code == "" {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("request failed", "err", err)
		body = ErrorBody{Error: "INTERNAL", Message: "internal error"}
	}
	WriteJSON(w, status, body)
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidTimeRange,
		apperr.CodePastBooking,
		apperr.CodeItemUnavailable,
		apperr.CodeAlreadyDecided,
		apperr.CodeNotEligibleToComment,
		apperr.CodeInvalidPagination,
		apperr.CodeUnknownState,
		apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeItemNotFound,
		apperr.CodeUserNotFound,
		apperr.CodeBookingNotFound,
		apperr.CodeRequestNotFound,
		apperr.CodeSelfBookingForbidden,
		apperr.CodeNotAuthorized:
		return http.StatusNotFound
	case apperr.CodeDuplicateEmail, apperr.CodeUserInUse:
		return http.StatusConflict
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
