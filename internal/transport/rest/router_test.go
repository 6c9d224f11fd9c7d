package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salon/backend/internal/service/bookings"
	"salon/backend/internal/service/catalog"
	"salon/backend/internal/service/staff"
	"salon/backend/internal/service/users"
	"salon/backend/internal/store/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	log := discardLogger()
	opts.Logger = log

	r := NewRouter(opts)
	MountUsers(r, users.NewService(memory.NewUserRepo()), log)
	MountStaff(r, staff.NewService(memory.NewStaffRepo()), log)
	MountServices(r, catalog.NewService(memory.NewServiceRepo()), log)
	MountBookings(r, bookings.NewService(memory.NewBookingRepo(), bookings.Config{}), log)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, message, path string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := decode[errorBody](t, rec)
	if body.Status != status || body.Path != path {
		t.Fatalf("body = %+v, want status %d path %q", body, status, path)
	}
	if message != "" && body.Message != message {
		t.Fatalf("message = %q, want %q", body.Message, message)
	}
	if _, err := time.Parse(timestampLayout, body.Timestamp); err != nil {
		t.Fatalf("timestamp %q: %v", body.Timestamp, err)
	}
}

func TestUsers_CRUDRoundTrip(t *testing.T) {
	r := newTestRouter(t, Options{})

	rec := do(t, r, http.MethodPost, "/api/users", map[string]any{
		"name": "Ada", "email": "ada@example.com", "mobile_no": "0700", "password": "s3cret", "gender": "FEMALE",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]any](t, rec)
	if _, ok := created["password"]; ok {
		t.Fatalf("password must not be returned: %v", created)
	}
	id, _ := created["id"].(string)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id %q: %v", id, err)
	}
	path := "/api/users/" + id

	rec = do(t, r, http.MethodPut, path, map[string]any{"name": "Ada L", "email": "ada@example.com", "mobile_no": "0711"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := decode[userResponse](t, rec)
	if got.ID != id || got.Name != "Ada L" || got.MobileNo != "0711" {
		t.Fatalf("got = %+v", got)
	}

	rec = do(t, r, http.MethodDelete, path, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	assertError(t, do(t, r, http.MethodGet, path, nil), http.StatusNotFound, "user not found", path)
	assertError(t, do(t, r, http.MethodDelete, path, nil), http.StatusNotFound, "user not found", path)
}

func TestUsers_MissingMobileNo(t *testing.T) {
	r := newTestRouter(t, Options{})

	rec := do(t, r, http.MethodPost, "/api/users", map[string]any{"name": "Ada"})
	assertError(t, rec, http.StatusBadRequest, "mobile number must not be null", "/api/users")
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter(t, Options{})

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		message string
	}{
		{name: "malformed json", method: http.MethodPost, path: "/api/services", body: "{", message: "request body must be valid JSON"},
		{name: "bad id", method: http.MethodGet, path: "/api/staff/nope", message: "id must be a UUID"},
		{name: "bad staff filter", method: http.MethodGet, path: "/api/bookings?staff_id=x", message: "staff_id must be a UUID"},
		{name: "booking without staff", method: http.MethodPost, path: "/api/bookings", body: map[string]any{"time": "10AM"}, message: "staff_id is required"},
		{name: "missing price", method: http.MethodPost, path: "/api/services", body: map[string]any{"name": "Cut", "detail": "d"}, message: "price is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, tt.method, tt.path, tt.body)
			wantPath := tt.path
			if u, err := http.NewRequest(tt.method, tt.path, nil); err == nil {
				wantPath = u.URL.Path
			}
			assertError(t, rec, http.StatusBadRequest, tt.message, wantPath)
		})
	}
}

func TestBookings_ConflictAcrossLabelCase(t *testing.T) {
	r := newTestRouter(t, Options{})
	staffID := uuid.NewString()

	rec := do(t, r, http.MethodPost, "/api/bookings", map[string]any{"staff_id": staffID, "time": "10AM", "price": 30})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d, body %s", rec.Code, rec.Body.String())
	}
	first := decode[bookingResponse](t, rec)
	if first.Status != "PENDING" || first.Time != "10AM" {
		t.Fatalf("first = %+v", first)
	}

	rec = do(t, r, http.MethodPost, "/api/bookings", map[string]any{"staff_id": staffID, "time": "10am"})
	assertError(t, rec, http.StatusConflict, "Staff not available", "/api/bookings")

	rec = do(t, r, http.MethodPost, "/api/bookings", map[string]any{"staff_id": uuid.NewString(), "time": "10am"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("other staff status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, "/api/bookings?staff_id="+staffID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if rows := decode[[]bookingResponse](t, rec); len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("filtered list = %+v", rows)
	}

	rec = do(t, r, http.MethodGet, "/api/bookings", nil)
	if rows := decode[[]bookingResponse](t, rec); len(rows) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(rows))
	}
}

func TestBookings_UpdateKeepsPrice(t *testing.T) {
	r := newTestRouter(t, Options{})
	staffID := uuid.NewString()

	rec := do(t, r, http.MethodPost, "/api/bookings", map[string]any{"staff_id": staffID, "time": "1PM", "price": 50})
	created := decode[bookingResponse](t, rec)

	rec = do(t, r, http.MethodPut, "/api/bookings/"+created.ID, map[string]any{
		"staff_id": staffID, "time": "2PM", "price": 1, "status": "confirmed",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[bookingResponse](t, rec)
	if got.ID != created.ID || got.Price != 50 || got.Status != "CONFIRMED" || got.Time != "2PM" {
		t.Fatalf("updated = %+v", got)
	}
}

func TestServices_ListReturnsAllCreated(t *testing.T) {
	r := newTestRouter(t, Options{})

	rec := do(t, r, http.MethodGet, "/api/services", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Fatalf("empty list = %d %s", rec.Code, rec.Body.String())
	}

	for _, name := range []string{"Cut", "Colour", "Shave"} {
		rec := do(t, r, http.MethodPost, "/api/services", map[string]any{"name": name, "detail": "d", "price": 10})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s status = %d", name, rec.Code)
		}
	}
	rec = do(t, r, http.MethodGet, "/api/services", nil)
	if rows := decode[[]serviceResponse](t, rec); len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

func TestHealth(t *testing.T) {
	healthy := newTestRouter(t, Options{Health: pingerFunc(func(context.Context) error { return nil })})
	if rec := do(t, healthy, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	down := newTestRouter(t, Options{Health: pingerFunc(func(context.Context) error { return errors.New("db down") })})
	if rec := do(t, down, http.MethodGet, "/health", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t, Options{RateLimit: 0.001, RateBurst: 1})

	if rec := do(t, r, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	assertError(t, do(t, r, http.MethodGet, "/health", nil), http.StatusTooManyRequests, "", "/health")
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(t, Options{})
	assertError(t, do(t, r, http.MethodGet, "/api/unknown", nil), http.StatusNotFound, "", "/api/unknown")
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientLimiter(1, 1)
	l.now = func() time.Time { return now }

	if !l.allow("10.0.0.1") {
		t.Fatalf("first request must be allowed")
	}
	if l.allow("10.0.0.1") {
		t.Fatalf("second immediate request must be limited")
	}

	now = now.Add(2 * limiterIdleTTL)
	if !l.allow("10.0.0.2") {
		t.Fatalf("new client must be allowed")
	}
	if _, ok := l.limiters["10.0.0.1"]; ok {
		t.Fatalf("idle client was not swept")
	}
}
