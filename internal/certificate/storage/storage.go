// Package storage uploads certificate documents and metadata to a
// content-addressable store and resolves content identifiers to URLs.
package storage

import "context"

// Gateway errors carry CodeUnavailable when the store is not configured or
// cannot be reached. Callers treat that as recoverable.
type Gateway interface {
	PutBlob(ctx context.Context, data []byte, name string) (string, error)
	PutJSON(ctx context.Context, doc any, name string) (string, error)
	ResolveURL(cid string) string
}
