package booking_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/booking"
	"shareit/internal/httpx"
)

func newRouter(f *fixture) http.Handler {
	r := chi.NewRouter()
	r.Route("/bookings", booking.NewHandler(f.service, nil).Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if user != uuid.Nil {
		req.Header.Set(httpx.UserHeader, user.String())
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHandlerCreateAndDecide(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f)

	rec := do(t, h, http.MethodPost, "/bookings", f.booker.ID, map[string]any{
		"itemId": f.item.ID,
		"start":  "2030-06-01T13:00:00",
		"end":    "2030-06-01T14:00:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created booking.ViewDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, booking.StatusWaiting, created.Status)
	assert.Equal(t, f.item.ID, created.Item.ID)
	assert.Equal(t, f.booker.ID, created.Booker.ID)
	assert.Equal(t, start.Add(time.Hour), created.Start.Time())
	assert.Contains(t, rec.Body.String(), `"start":"2030-06-01T13:00:00"`)

	rec = do(t, h, http.MethodPatch, "/bookings/"+created.ID.String()+"?approved=true", f.owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var decided booking.ViewDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decided))
	assert.Equal(t, booking.StatusApproved, decided.Status)

	rec = do(t, h, http.MethodPatch, "/bookings/"+created.ID.String()+"?approved=false", f.owner.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ALREADY_DECIDED", errorCode(t, rec))

	rec = do(t, h, http.MethodGet, "/bookings/"+created.ID.String()+"/history", f.booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, booking.EventBookingApproved, history[1]["type"])
}

func TestHandlerErrors(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f)
	v := f.book(t, time.Hour, 2*time.Hour)

	tests := []struct {
		name   string
		method string
		target string
		user   uuid.UUID
		body   any
		status int
		code   string
	}{
		{"missing header", http.MethodGet, "/bookings", uuid.Nil, nil, http.StatusBadRequest, "VALIDATION"},
		{"missing item id", http.MethodPost, "/bookings", f.booker.ID,
			map[string]any{"start": "2030-06-01T13:00:00", "end": "2030-06-01T14:00:00"}, http.StatusBadRequest, "VALIDATION"},
		{"bad timestamp", http.MethodPost, "/bookings", f.booker.ID,
			map[string]any{"itemId": f.item.ID, "start": "tomorrow", "end": "2030-06-01T14:00:00"}, http.StatusBadRequest, "VALIDATION"},
		{"past booking", http.MethodPost, "/bookings", f.booker.ID,
			map[string]any{"itemId": f.item.ID, "start": "2030-06-01T11:00:00", "end": "2030-06-01T14:00:00"}, http.StatusBadRequest, "PAST_BOOKING"},
		{"own item", http.MethodPost, "/bookings", f.owner.ID,
			map[string]any{"itemId": f.item.ID, "start": "2030-06-01T13:00:00", "end": "2030-06-01T14:00:00"}, http.StatusNotFound, "SELF_BOOKING_FORBIDDEN"},
		{"unknown booking", http.MethodGet, "/bookings/" + uuid.NewString(), f.booker.ID, nil, http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{"malformed booking id", http.MethodGet, "/bookings/42", f.booker.ID, nil, http.StatusBadRequest, "VALIDATION"},
		{"stranger decides", http.MethodPatch, "/bookings/" + v.ID.String() + "?approved=true", f.booker.ID, nil, http.StatusNotFound, "NOT_AUTHORIZED"},
		{"approved missing", http.MethodPatch, "/bookings/" + v.ID.String(), f.owner.ID, nil, http.StatusBadRequest, "VALIDATION"},
		{"unknown state", http.MethodGet, "/bookings?state=SOMETIME", f.booker.ID, nil, http.StatusBadRequest, "UNKNOWN_STATE"},
		{"unknown user before unknown state", http.MethodGet, "/bookings/owner?state=SOMETIME", uuid.New(), nil, http.StatusNotFound, "USER_NOT_FOUND"},
		{"negative from", http.MethodGet, "/bookings?from=-1", f.booker.ID, nil, http.StatusBadRequest, "INVALID_PAGINATION"},
		{"zero size", http.MethodGet, "/bookings/owner?size=0", f.owner.ID, nil, http.StatusBadRequest, "INVALID_PAGINATION"},
		{"non-integer size", http.MethodGet, "/bookings?size=ten", f.booker.ID, nil, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestHandlerListDefaultsToAll(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f)
	a := f.book(t, time.Hour, 2*time.Hour)
	b := f.book(t, 3*time.Hour, 4*time.Hour)

	rec := do(t, h, http.MethodGet, "/bookings", f.booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []booking.ViewDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)

	rec = do(t, h, http.MethodGet, "/bookings/owner?state=future&from=1&size=1", f.owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}
