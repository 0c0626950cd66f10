package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewHTTPRequest creates a new HTTP request for testing handlers
func NewHTTPRequest(method, path string, body interface{}) *http.Request {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// WithActorHeaders sets the identity headers the gateway forwards
func WithActorHeaders(req *http.Request, userID, role string) *http.Request {
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	return req
}

// ExecuteRequest executes an HTTP request and returns the response recorder
func ExecuteRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// AssertStatus checks the response status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status, body: %s", rr.Body.String())
}

// APIResponse mirrors httputil.Response with a raw data field for decoding
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

// ParseAPIResponse decodes the standard response envelope
func ParseAPIResponse(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "body: %s", rr.Body.String())
	return resp
}

// ParseData decodes the envelope's data field into target
func ParseData(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	resp := ParseAPIResponse(t, rr)
	require.NoError(t, json.Unmarshal(resp.Data, target))
}

// ContextWithTimeout returns a context cancelled when the test ends
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// PtrString returns a pointer to s
func PtrString(s string) *string {
	return &s
}

// PtrInt returns a pointer to i
func PtrInt(i int) *int {
	return &i
}

// PtrBool returns a pointer to b
func PtrBool(b bool) *bool {
	return &b
}
