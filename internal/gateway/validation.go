// internal/gateway/validation.go
package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/clock"
	"shareit/internal/httpx"
)

type userBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type userPatchBody struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type itemBody struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Available   *bool      `json:"available" validate:"required"`
	RequestID   *uuid.UUID `json:"requestId"`
}

type itemPatchBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type commentBody struct {
	Text string `json:"text" validate:"required"`
}

type requestBody struct {
	Description string `json:"description" validate:"required"`
}

type bookingBody struct {
	ItemID *uuid.UUID      `json:"itemId" validate:"required"`
	Start  *httpx.DateTime `json:"start" validate:"required"`
	End    *httpx.DateTime `json:"end" validate:"required"`
}

// Struct-level tags reported for booking windows.
const (
	tagEndAfterStart = "endafterstart"
	tagNotPast       = "notpast"
)

// newValidator returns a validator that also rejects booking windows ending
// before they start or starting in the past relative to clk.
func newValidator(clk clock.Clock) *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		b := sl.Current().Interface().(bookingBody)
		if b.Start == nil || b.End == nil {
			return
		}
		if !b.End.Time().After(b.Start.Time()) {
			sl.ReportError(b.End, "End", "end", tagEndAfterStart, "")
			return
		}
		if b.Start.Time().Before(clk.Now()) {
			sl.ReportError(b.Start, "Start", "start", tagNotPast, "")
		}
	}, bookingBody{})
	return v
}

// body decodes and validates the request body as T, then restores it for
// the proxy.
func body[T any](g *Gateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				httpx.WriteError(w, g.logger, apperr.New(apperr.CodeValidation, "unreadable body: %v", err))
				return
			}
			_ = r.Body.Close()

			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				httpx.WriteError(w, g.logger, apperr.New(apperr.CodeValidation, "invalid JSON: %v", err))
				return
			}
			if err := g.validate.Struct(v); err != nil {
				httpx.WriteError(w, g.logger, validationError(err))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			next.ServeHTTP(w, r)
		})
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.New(apperr.CodeValidation, "%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case tagEndAfterStart:
			return apperr.New(apperr.CodeInvalidTimeRange, "end must be after start")
		case tagNotPast:
			return apperr.New(apperr.CodePastBooking, "start must not be in the past")
		}
		msgs = append(msgs, fe.Field()+" failed on "+fe.Tag())
	}
	return apperr.New(apperr.CodeValidation, "%s", strings.Join(msgs, "; "))
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := httpx.UserID(r); err != nil {
			httpx.WriteError(w, nil, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func paging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, size, err := httpx.PageParams(r)
		if err != nil {
			httpx.WriteError(w, nil, err)
			return
		}
		if _, err := booking.NewPage(from, size); err != nil {
			httpx.WriteError(w, nil, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bookingState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := booking.ParseState(r.URL.Query().Get("state")); err != nil {
			httpx.WriteError(w, nil, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func approvedParam(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := strconv.ParseBool(r.URL.Query().Get("approved")); err != nil {
			httpx.WriteError(w, nil, apperr.New(apperr.CodeValidation, "approved must be true or false"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
