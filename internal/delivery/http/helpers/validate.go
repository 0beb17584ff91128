package helpers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventboard/internal/domain"
)

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). On decode or validation failure
// it writes a 400 APIError and returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		writeBadRequest(w, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			writeBadRequest(w, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

// ParseID parses the named path value as a positive int64. On failure it
// writes a 400 APIError and returns false.
func ParseID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

func writeBadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, APIError{
		Status:    "BAD_REQUEST",
		Reason:    "Incorrectly made request.",
		Message:   message,
		Timestamp: time.Now().Format(domain.DateTimeLayout),
	})
}
