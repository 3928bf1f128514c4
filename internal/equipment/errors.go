package equipment

import (
	"errors"
	"fmt"

	"github.com/are3ej/heavytrade/internal/docstore"
)

var (
	// ErrUnauthorized is returned when a write is attempted without an
	// authenticated principal.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound is returned when an id is absent from the expected collection.
	ErrNotFound = errors.New("equipment not found")

	// ErrStoreUnavailable reports a backing-store I/O failure.
	ErrStoreUnavailable = docstore.ErrUnavailable
)

// InvalidRecordError is a write-time validation failure naming the offending
// field.
type InvalidRecordError struct {
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record: %s %s", e.Field, e.Reason)
}

// PartialMoveError reports a two-step move between collections that failed
// after its first step already ran. Unless RolledBack is true, the record may
// exist in both collections (or carry a stale copy); callers must re-fetch
// both collections before retrying.
type PartialMoveError struct {
	ID         string
	From       string
	To         string
	RolledBack bool
	Err        error
}

func (e *PartialMoveError) Error() string {
	state := "partitions in unknown state"
	if e.RolledBack {
		state = "rolled back"
	}
	return fmt.Sprintf("moving %s from %s to %s: %v (%s)", e.ID, e.From, e.To, e.Err, state)
}

func (e *PartialMoveError) Unwrap() error { return e.Err }
