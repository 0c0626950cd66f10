package httputil_test

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shiftboard/shiftboard-backend/pkg/actor"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/httputil"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// =============================================================================
// Responses
// =============================================================================

func TestError(t *testing.T) {
	t.Run("app error keeps code and details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httputil.Error(rec, errors.MissingFields("date"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, errors.CodeMissingFields, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "date")
	})

	t.Run("plain error is hidden behind 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httputil.Error(rec, stderrors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, errors.CodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq")
	})
}

func TestJSONWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.JSONWithMeta(rec, http.StatusOK, []string{"a"}, &httputil.Meta{Total: 1})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.EqualValues(t, 1, resp.Meta.Total)
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Date string `json:"date"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2024-01-05"}`))
	require.NoError(t, httputil.DecodeJSON(req, &body))
	assert.Equal(t, "2024-01-05", body.Date)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := httputil.DecodeJSON(req, &body)
	assert.Equal(t, errors.CodeBadRequest, errors.CodeOf(err))
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate(t *testing.T) {
	type input struct {
		EmployeeID string `json:"employee_id" validate:"omitempty,uuid"`
		Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	}

	require.NoError(t, httputil.Validate(input{}))
	require.NoError(t, httputil.Validate(input{
		EmployeeID: "8a5b6f0e-4c1d-4c59-9a3e-2f6f1c7d9e10",
		Date:       "2024-02-29",
	}))

	err := httputil.Validate(input{EmployeeID: "nope", Date: "2024/02/29"})
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.CodeValidation, appErr.Code)
	assert.Equal(t, "must be a valid UUID", appErr.Details["employee_id"])
	assert.Equal(t, "must be a date in YYYY-MM-DD form", appErr.Details["date"])
}

// =============================================================================
// Middleware
// =============================================================================

func TestActorMiddleware(t *testing.T) {
	var got *actor.Actor
	h := httputil.ActorMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = actor.FromContext(r.Context())
	}))

	t.Run("headers become actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(httputil.HeaderUserID, "user-1")
		req.Header.Set(httputil.HeaderUserRole, "manager")
		req.Header.Set(httputil.HeaderUserEmail, "m@example.com")
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, "user-1", got.ID)
		assert.True(t, got.IsPrivileged())
	})

	t.Run("anonymous request", func(t *testing.T) {
		got = nil
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Nil(t, got)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := httputil.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "req-42", seen)
}

func TestRecoverer(t *testing.T) {
	h := httputil.Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
