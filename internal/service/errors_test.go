package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalogapi/internal/database"
	"catalogapi/internal/repository"
)

func TestTranslate(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "title", in: fmt.Errorf("create: %w", &repository.ConstraintError{Constraint: repository.ConstraintEntryTitle}), want: ErrTitleTaken},
		{name: "tag name", in: &repository.ConstraintError{Constraint: repository.ConstraintTagName}, want: ErrTagExists},
		{name: "review", in: &repository.ConstraintError{Constraint: repository.ConstraintReview}, want: ErrDuplicateReview},
		{name: "passes service errors", in: ErrNotFound, want: ErrNotFound},
		{name: "passes cancellation", in: context.Canceled, want: context.Canceled},
		{name: "unclassified", in: boom, want: ErrCommit},
		{name: "begin failed", in: database.Error.Wrap(fmt.Errorf("%w: %w", database.ErrBegin, boom)), want: ErrUnavailable},
		{name: "commit failed", in: database.Error.Wrap(fmt.Errorf("commit: %w", boom)), want: ErrCommit},
		{name: "passes unavailable", in: ErrUnavailable, want: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.in), tt.want)
		})
	}

	assert.ErrorIs(t, translate(boom), boom, "the cause stays reachable")
	assert.Nil(t, translate(nil))
	assert.NotErrorIs(t, translate(database.Error.Wrap(errors.New("commit"))), ErrUnavailable)

	var ve *ValidationError
	assert.ErrorAs(t, translate(&repository.ConstraintError{Constraint: repository.ConstraintEntryTagTag}), &ve)
}

func TestDigestRace(t *testing.T) {
	assert.True(t, digestRace(&repository.ConstraintError{Constraint: repository.ConstraintAssetDigest}))
	assert.True(t, digestRace(fmt.Errorf("x: %w", &repository.ConstraintError{Constraint: repository.ConstraintEntryAsset})))
	assert.False(t, digestRace(&repository.ConstraintError{Constraint: repository.ConstraintEntryTitle}))
	assert.False(t, digestRace(errors.New("boom")))
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "please fill in all fields: title, year", (&ValidationError{Fields: []string{"title", "year"}, Reason: "please fill in all fields"}).Error())
	assert.Equal(t, "unknown tag", (&ValidationError{Reason: "unknown tag"}).Error())
}
