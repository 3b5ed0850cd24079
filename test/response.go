package test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"attendance-lms/internal/global/response"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	require.Equal(t, expected.Code, resp.Code)
	require.Equal(t, expected.Message, resp.Msg)
}

// CodeEqual ignores the message, which may carry tips.
func CodeEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	require.Equal(t, expected.Code, resp.Code)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	require.Equal(t, response.CodeSuccess, resp.Code)
}

// View is a decoded view response with the model left raw.
type View struct {
	View  string                     `json:"view"`
	Model map[string]json.RawMessage `json:"model"`
}

// DecodeView requires a successful view response and returns it.
func DecodeView(t *testing.T, w *httptest.ResponseRecorder) View {
	t.Helper()
	var body struct {
		Code int32  `json:"code"`
		Msg  string `json:"msg"`
		Data View   `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, response.CodeSuccess, body.Code, body.Msg)
	return body.Data
}

// Field decodes model[key] into out and reports whether the key exists.
func (v View) Field(t *testing.T, key string, out any) bool {
	t.Helper()
	raw, ok := v.Model[key]
	if !ok {
		return false
	}
	require.NoError(t, json.Unmarshal(raw, out))
	return true
}
