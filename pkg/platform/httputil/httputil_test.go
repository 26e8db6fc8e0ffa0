package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/pkg/domainerrors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteErrorMapsCodesToStatuses(t *testing.T) {
	cases := []struct {
		code   domainerrors.Code
		status int
	}{
		{domainerrors.CodeValidation, http.StatusBadRequest},
		{domainerrors.CodeBadRequest, http.StatusBadRequest},
		{domainerrors.CodeNotFound, http.StatusNotFound},
		{domainerrors.CodeConflict, http.StatusConflict},
		{domainerrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, domainerrors.New(tc.code, "something"))
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, string(tc.code), decodeBody(t, rec)["error"])
		})
	}
}

func TestWriteErrorOmitsDescriptionForInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, domainerrors.Wrap(domainerrors.CodeInternal, "pq: connection refused", errors.New("dial tcp")))

	body := decodeBody(t, rec)
	assert.Equal(t, "internal_error", body["error"])
	assert.NotContains(t, body, "error_description", "storage details never reach clients")
}

func TestWriteErrorIncludesDescriptionForClientErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, domainerrors.New(domainerrors.CodeNotFound, "employee not found"))

	body := decodeBody(t, rec)
	assert.Equal(t, "employee not found", body["error_description"])
}

func TestWriteErrorTreatsUnknownErrorsAsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("some unexpected failure"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.NotContains(t, body, "error_description")
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"first_name":"Jane","surprise":true}`))
	var dst struct {
		FirstName string `json:"first_name"`
	}
	err := Decode(req, &dst)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeBadRequest, domainerrors.CodeOf(err))
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"first_name":`))
	var dst struct {
		FirstName string `json:"first_name"`
	}
	err := Decode(req, &dst)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeBadRequest, domainerrors.CodeOf(err))
}

func TestDecodeAcceptsWellFormedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"first_name":"Jane"}`))
	var dst struct {
		FirstName string `json:"first_name"`
	}
	require.NoError(t, Decode(req, &dst))
	assert.Equal(t, "Jane", dst.FirstName)
}

func TestWriteJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
