package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsAndCodes(t *testing.T) {
	tests := []struct {
		err  error
		kind error
		code string
	}{
		{newError(ErrMissingField, "content is required"), ErrMissingField, "missing_field"},
		{newError(ErrInvalidSchedule, "in the past"), ErrInvalidSchedule, "invalid_schedule"},
		{newError(ErrNotFound, "nope"), ErrNotFound, "not_found"},
		{newError(ErrForbidden, "not yours"), ErrForbidden, "forbidden"},
		{newError(ErrAlreadyPublished, "done"), ErrAlreadyPublished, "already_published"},
		{storageError("db", errors.New("conn reset")), ErrStorage, "storage_failure"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.code, Code(tt.err))
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.kind)
		})
	}
}

func TestMessageHidesStorageDetail(t *testing.T) {
	cause := errors.New("pq: password authentication failed")
	err := storageError("failed to create post", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", Message(err))
	assert.Equal(t, "internal server error", Message(errors.New("raw")))
	assert.Equal(t, "content is required", Message(newError(ErrMissingField, "content is required")))
}
