package buku

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("buku: bookmark not found")
	ErrClosed         = errors.New("buku: database closed")
	ErrLocateDatabase = errors.New("buku: failed to locate database")
	ErrAccessDatabase = errors.New("buku: failed to access database")
)

// Database is the bookmark storage capability. Batch operations are
// all-or-nothing: a failure on any record leaves the collection unchanged.
type Database interface {
	GetAll(ctx context.Context) ([]SavedBookmark, error)
	GetByIDs(ctx context.Context, ids []ID) ([]SavedBookmark, error)
	AddMany(ctx context.Context, records []Bookmark) ([]ID, error)
	UpdateMany(ctx context.Context, records []SavedBookmark) error
	DeleteMany(ctx context.Context, ids []ID) error
	Close() error
}

// FriendlyMessage returns the client-facing text for an initialization
// failure. Unrecognised errors are reported as access failures.
func FriendlyMessage(err error) string {
	if errors.Is(err, ErrLocateDatabase) {
		return "Failed to locate Buku database."
	}
	return "Failed to access Buku database."
}

func uniqueIDs(ids []ID) []ID {
	seen := make(map[ID]struct{}, len(ids))
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
