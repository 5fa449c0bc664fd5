package test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"taskview/internal/global/response"
)

// ErrorBody JSON 错误响应
type ErrorBody struct {
	Error string `json:"error"`
	Code  int32  `json:"code"`
}

func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func ErrorEqual(t *testing.T, expected *response.Error, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, expected.Status, w.Code, w.Body.String())
	body := Decode[ErrorBody](t, w)
	require.Equal(t, expected.Code, body.Code)
	require.Equal(t, expected.Message, body.Error)
}

func NoError(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, 200, w.Code, w.Body.String())
	body := Decode[map[string]any](t, w)
	require.Equal(t, true, body["success"])
}
