// Package bind decodes and validates an HTTP request body, answering on the
// wire itself when the body is unusable so controllers only see good input.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tillworks/tillpoint/config"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/response"
	"github.com/tillworks/tillpoint/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20 // 4 MB
	}
	return n
}

// Body decodes r.Body as JSON into dest and runs tag validation. On failure
// it writes the error response itself (400 {detail, type} for malformed or
// oversized bodies, 422 with a field map for validation failures) and
// returns false; the handler should simply return.
func Body(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		detail := "Invalid JSON body"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			detail = fmt.Sprintf("Request body too large (max %d bytes)", maxErr.Limit)
		}
		response.WriteError(w, r, apperr.Validation(detail))
		return false
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return false
	}

	return true
}
