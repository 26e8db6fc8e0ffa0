// Package httputil centralizes JSON encoding/decoding and error translation
// for HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"staffdesk/pkg/domainerrors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response. Internal errors
// omit the description so storage details never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != domainerrors.CodeInternal {
		if msg := domainerrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, statusFor(code), body)
}

// Decode parses the request body into dst, limiting body size and rejecting
// unknown fields so typos surface as 400s instead of silent drops.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domainerrors.Wrap(domainerrors.CodeBadRequest, "invalid request body", err)
	}
	return nil
}

func statusFor(code domainerrors.Code) int {
	switch code {
	case domainerrors.CodeValidation, domainerrors.CodeBadRequest:
		return http.StatusBadRequest
	case domainerrors.CodeNotFound:
		return http.StatusNotFound
	case domainerrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
