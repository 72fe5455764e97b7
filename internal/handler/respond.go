package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

const (
	headerDataSource = "X-Data-Source"
	sourceLive       = "live"
	sourceFallback   = "fallback"

	maxBodyBytes = 1 << 20
)

var errInvalidJSON = errors.New("invalid JSON")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData writes a read response tagged with where the data came from.
func writeData(w http.ResponseWriter, v any, live bool) {
	source := sourceLive
	if !live {
		source = sourceFallback
	}
	w.Header().Set(headerDataSource, source)
	writeJSON(w, http.StatusOK, v)
}

// decodeObject reads a JSON object body. Numbers are kept as json.Number so
// integers are stored as integers.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errInvalidJSON
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
