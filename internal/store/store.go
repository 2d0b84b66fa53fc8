package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by point operations when no record with the
// given id exists for the kind.
var ErrNotFound = errors.New("store: record not found")

// Kinds used by the directory repositories.
const (
	KindEmployee = "employees"
	KindContact  = "contacts"
)

// Filter matches records whose document fields equal the given values.
// Keys are top-level JSON field names.
type Filter map[string]interface{}

// Record is a stored document together with its store-assigned id.
type Record struct {
	ID     string
	Source json.RawMessage
}

// Store is the record store contract shared by all backends. Ids are
// time-ordered (UUIDv7), so lexicographic id order is creation order;
// FindMany returns records in that order.
type Store interface {
	// Insert persists doc under a freshly assigned id and returns it.
	Insert(ctx context.Context, kind string, doc interface{}) (string, error)

	// FindByID returns the record with the given id or ErrNotFound.
	FindByID(ctx context.Context, kind, id string) (*Record, error)

	// FindMany returns the matching records after applying skip/limit,
	// plus the total match count before paging. A skip beyond the end
	// yields an empty slice and the real total.
	FindMany(ctx context.Context, kind string, filter Filter, skip, limit int) ([]Record, int64, error)

	// UpdateByID merges fields into the stored document and returns the
	// updated record, or ErrNotFound.
	UpdateByID(ctx context.Context, kind, id string, fields map[string]interface{}) (*Record, error)

	// DeleteByID removes the record and returns what was removed, or
	// ErrNotFound.
	DeleteByID(ctx context.Context, kind, id string) (*Record, error)

	// DeleteMany removes all matching records and returns how many.
	DeleteMany(ctx context.Context, kind string, filter Filter) (int64, error)

	// Close releases the underlying connection.
	Close() error
}

// newID assigns record ids. UUIDv7 embeds a millisecond timestamp, so
// ids sort by creation time.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
