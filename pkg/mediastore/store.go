// Package mediastore resolves practice media to raw bytes and manages the
// clip library they live in.
//
// A Source names media by id plus up to three byte tiers: inline bytes, a
// remote URL and a library path. Resolver tries the tiers in that order and
// the decode layer only ever sees the winning bytes. The library itself is a
// Store, backed by a local directory or any S3-compatible bucket.
package mediastore

import (
	"context"
	"io"
)

// Store is the clip library backend.
//
// Names are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens the named clip for reading. The caller closes the returned
	// ReadCloser. A missing clip yields an error wrapping fs.ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Put stores the named clip, replacing any previous content.
	Put(ctx context.Context, name string, r io.Reader) error

	// Delete removes the named clip. Deleting a missing clip is not an
	// error.
	Delete(ctx context.Context, name string) error

	// Exists reports whether the named clip is present.
	Exists(ctx context.Context, name string) (bool, error)
}
