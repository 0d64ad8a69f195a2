// Package docstore defines the remote document store contract shared by the
// postgres, sqlite and in-memory adapters.
//
// Documents are JSON objects addressed by slash-separated paths. The parent
// of a document path is its collection, so "accounts/42/cardSetProgress/set-1"
// lives in the "accounts/42/cardSetProgress" collection.
package docstore

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Document is a stored JSON object.
type Document struct {
	Path      string
	Data      json.RawMessage
	UpdatedAt time.Time
}

// ID returns the last path segment.
func (d Document) ID() string {
	return BaseName(d.Path)
}

// SetOptions controls Set behaviour.
type SetOptions struct {
	// Merge applies Data as a JSON merge patch onto the existing document
	// instead of replacing it. A missing document is created from the patch.
	Merge bool
}

// WriteOp is the kind of a batched write.
type WriteOp int

const (
	WriteSet WriteOp = iota
	WriteDelete
)

// Write is a single element of an atomic batch.
type Write struct {
	Op    WriteOp
	Path  string
	Data  json.RawMessage
	Merge bool
}

// SetWrite builds a set write.
func SetWrite(path string, data json.RawMessage, merge bool) Write {
	return Write{Op: WriteSet, Path: path, Data: data, Merge: merge}
}

// DeleteWrite builds a delete write.
func DeleteWrite(path string) Write {
	return Write{Op: WriteDelete, Path: path}
}

// Store is the document store contract. Get returns an error wrapping
// domain.ErrNotFound when the document does not exist. Delete of a missing
// document is not an error. BatchWrite applies all writes or none.
type Store interface {
	Get(ctx context.Context, path string) (*Document, error)
	Set(ctx context.Context, path string, data json.RawMessage, opts SetOptions) error
	BatchWrite(ctx context.Context, writes []Write) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, collection string) ([]Document, error)
}

// Collection returns the parent collection of a document path.
func Collection(path string) string {
	path = strings.Trim(path, "/")
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// BaseName returns the last segment of a path.
func BaseName(path string) string {
	path = strings.Trim(path, "/")
	return path[strings.LastIndexByte(path, '/')+1:]
}
