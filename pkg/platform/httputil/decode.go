package httputil

import (
	"net/http"
	"strconv"
	"strings"

	dErrors "staffdir/pkg/domain-errors"
)

// maxFormBytes bounds form submissions (search query, card index).
const maxFormBytes = 4 << 10

// ParseIndex parses a non-negative record index from a path or form value.
func ParseIndex(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "index is required")
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, "index must be an integer")
	}
	if idx < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "index must not be negative")
	}
	return idx, nil
}

// FormValue reads a single form field from a size-limited body.
func FormValue(w http.ResponseWriter, r *http.Request, key string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid form submission")
	}
	return r.PostFormValue(key), nil
}
