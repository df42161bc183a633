package sources

import (
	"errors"
	"fmt"
)

// ErrIndexNotFound is matched by errors.Is when an index is absent remotely
var ErrIndexNotFound = errors.New("index not found")

// NotFoundError reports that an index does not exist on the search service
type NotFoundError struct {
	Index string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("index %q does not exist on the search service", e.Index)
}

// Is makes NotFoundError match ErrIndexNotFound
func (*NotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// RemoteUnavailableError reports a network or service fault on the search service
type RemoteUnavailableError struct {
	Index string
	Op    string
	Err   error
}

func (e *RemoteUnavailableError) Error() string {
	if e.Index == "" {
		return fmt.Sprintf("search service unavailable during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("search service unavailable during %s of index %s: %v", e.Op, e.Index, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// RepositoryError reports a local I/O fault unrelated to a missing artifact
type RepositoryError struct {
	Index string
	Path  string
	Err   error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("local settings of index %s at %s: %v", e.Index, e.Path, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
