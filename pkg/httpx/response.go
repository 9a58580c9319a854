package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/castrack/pkg/validx"
)

// MaxJSONBody caps JSON request bodies.
const MaxJSONBody = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON writes v as JSON with the given status and no-cache headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody.
func WriteError(w http.ResponseWriter, code int, errCode, message string, details ...string) {
	WriteJSON(w, code, ErrorBody{Error: errCode, Message: message, Details: details})
}

// NoCache marks a response as not cacheable.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrBadJSON wraps every body decoding failure.
var ErrBadJSON = errors.New("httpx: invalid JSON body")

// DecodeJSON reads a size-limited JSON body into dst and runs struct
// validation on it. Validation failures come back as validx.ValidationErrors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxJSONBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadJSON)
		}
		return fmt.Errorf("%w: %w", ErrBadJSON, err)
	}
	return validx.ValidateStruct(dst)
}

// WriteDecodeError answers a DecodeJSON failure with a 400.
func WriteDecodeError(w http.ResponseWriter, err error) {
	var verrs validx.ValidationErrors
	if errors.As(err, &verrs) {
		WriteError(w, http.StatusBadRequest, "validation_error", "Invalid request", verrs.Details()...)
		return
	}
	WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
}
