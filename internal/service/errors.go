package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalogapi/internal/database"
	"catalogapi/internal/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrTitleTaken        = errors.New("an entry with this title already exists")
	ErrTagExists         = errors.New("a tag with this name already exists")
	ErrDuplicateReview   = errors.New("you have already reviewed this entry")
	ErrTransientConflict = errors.New("the same cover is being uploaded concurrently, please retry")
	ErrCommit            = errors.New("could not save, check your input")
	ErrUnavailable       = errors.New("the catalog is temporarily unavailable, please retry")
)

// ValidationError reports missing or malformed input. Nothing was staged when it is returned.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

// FileError reports a cover file operation that failed after the database commit.
// The committed rows are kept; Op is "write" or "delete".
type FileError struct {
	Op  string
	Key string
	Err error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cover %s %s failed: %v", e.Op, e.Key, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// translate maps a failed transaction onto the service taxonomy. Errors that are already part of
// it pass through. A transaction that never began staged nothing and becomes ErrUnavailable;
// anything else unclassified, a failed commit included, becomes ErrCommit.
func translate(err error) error {
	var (
		ve *ValidationError
		fe *FileError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve), errors.As(err, &fe),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTitleTaken),
		errors.Is(err, ErrTagExists),
		errors.Is(err, ErrDuplicateReview),
		errors.Is(err, ErrTransientConflict),
		errors.Is(err, ErrUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case repository.IsConstraint(err, repository.ConstraintEntryTitle):
		return ErrTitleTaken
	case repository.IsConstraint(err, repository.ConstraintTagName):
		return ErrTagExists
	case repository.IsConstraint(err, repository.ConstraintReview):
		return ErrDuplicateReview
	case repository.IsConstraint(err, repository.ConstraintEntryTagTag):
		return &ValidationError{Fields: []string{"tags"}, Reason: "unknown tag"}
	case database.Error.Has(err) && errors.Is(err, database.ErrBegin):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case database.Error.Has(err):
		return fmt.Errorf("%w: commit failed: %w", ErrCommit, err)
	}
	return fmt.Errorf("%w: %w", ErrCommit, err)
}

// digestRace reports whether a create lost a race against a concurrent upload or delete of the
// same cover. Re-running the transaction resolves to whatever state won.
func digestRace(err error) bool {
	return repository.IsConstraint(err,
		repository.ConstraintAssetDigest,
		repository.ConstraintAssetStoredName,
		repository.ConstraintEntryAsset,
	)
}
