package web

import (
	"encoding/json"
	"net/http"

	"github.com/vecbase/vecbase/internal/vecerr"
)

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError translates err's Kind to a standard HTTP status and writes
// it alongside the error detail, per the error-handling design's
// user-visible mapping.
func jsonError(w http.ResponseWriter, err error) {
	jsonResponse(w, statusFor(vecerr.KindOf(err)), map[string]string{"error": err.Error()})
}

func statusFor(kind vecerr.Kind) int {
	switch kind {
	case vecerr.NotFound:
		return http.StatusNotFound
	case vecerr.DuplicateId:
		return http.StatusConflict
	case vecerr.DimensionMismatch, vecerr.DegenerateVector, vecerr.InvalidArgument:
		return http.StatusBadRequest
	case vecerr.NotIndexed:
		return http.StatusConflict
	case vecerr.PersistenceError, vecerr.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return vecerr.New(vecerr.InvalidArgument, "web.decodeJSON", "request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return vecerr.Wrap(vecerr.InvalidArgument, "web.decodeJSON", err)
	}
	return nil
}
