// Package store is the notice store client: a small path-addressed document
// API (children, push, update, delete) with interchangeable backends.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var (
	// ErrUnavailable wraps every backend failure. Callers use it to decide
	// between an error response and a fallback payload.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidPath reports a path or key the store cannot address.
	ErrInvalidPath = errors.New("invalid store path")
)

// Record is the stored value of one node: a JSON object.
type Record map[string]any

// Node is a child record together with its key.
type Node struct {
	Key  string
	Data Record
}

// Client is implemented by every backend.
type Client interface {
	// Children returns the direct children of path in key order. A path
	// with no children yields an empty slice.
	Children(ctx context.Context, path string) ([]Node, error)
	// Push stores data under a new store-assigned key below path.
	Push(ctx context.Context, path string, data Record) (string, error)
	// Update merges fields into the record at path, creating it if needed.
	// A nil value removes that field. A record left with no fields is
	// removed, and an update that would create an empty record is a no-op.
	Update(ctx context.Context, path string, fields Record) error
	// Delete removes the record at path. Deleting a missing record is not an error.
	Delete(ctx context.Context, path string) error
	Close() error
}

// maxKeyLen matches the key length limit of hosted realtime databases.
const maxKeyLen = 768

// ValidKey reports whether key can be used as a single path segment.
func ValidKey(key string) bool {
	if key == "" || len(key) > maxKeyLen {
		return false
	}
	return !strings.ContainsAny(key, "/.#$[]")
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Clean validates a collection path and strips surrounding slashes.
func Clean(path string) (string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for _, seg := range strings.Split(path, "/") {
		if !ValidKey(seg) {
			return "", fmt.Errorf("%w: bad segment %q in %q", ErrInvalidPath, seg, path)
		}
	}
	return path, nil
}

// Split separates a record path into its parent collection and key.
func Split(path string) (parent, key string, err error) {
	path, err = Clean(path)
	if err != nil {
		return "", "", err
	}
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", "", fmt.Errorf("%w: %q has no parent", ErrInvalidPath, path)
	}
	return path[:i], path[i+1:], nil
}

// NewKey returns a fresh time-ordered key, so key order is creation order.
func NewKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return id.String(), nil
}

// Merge applies fields to dst in place and returns it. Nil values delete.
func Merge(dst, fields Record) Record {
	if dst == nil {
		dst = Record{}
	}
	for k, v := range fields {
		if v == nil {
			delete(dst, k)
			continue
		}
		dst[k] = v
	}
	return dst
}

// compact drops nil values so they are never persisted.
func compact(r Record) Record {
	return Merge(Record{}, r)
}

func encode(r Record) ([]byte, error) {
	if r == nil {
		r = Record{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return data, nil
}

// decode keeps numbers as json.Number so integers survive a round trip.
func decode(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	if r == nil {
		r = Record{}
	}
	return r, nil
}

func sortNodes(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Key < nodes[j].Key })
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
