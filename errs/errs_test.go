package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusSentinelMatching(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("blog entry not found")))
	assert.True(t, IsBadRequest(NewInvalidFieldError("title", "required")))
	assert.True(t, IsUnauthorized(Unauthorized))
	assert.True(t, IsConflict(NewConflictError("tag exists")))
	assert.False(t, IsNotFound(NewBadRequestError("nope")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestAuthorUnresolvedError(t *testing.T) {
	err := NewAuthorUnresolvedError("no authentication present")

	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.True(t, IsAuthorUnresolvedError(err))
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "author could not be resolved: no authentication present", err.Error())
}

func TestNewDatabaseErrorClassification(t *testing.T) {
	testCases := []struct {
		name       string
		cause      error
		wantStatus int
		check      func(error) bool
	}{
		{
			name:       "duplicate key",
			cause:      errors.New(`ERROR: duplicate key value violates unique constraint "idx_tag_value"`),
			wantStatus: http.StatusConflict,
			check:      IsUniqueConstraintViolationError,
		},
		{
			name:       "gorm duplicated key",
			cause:      errors.New("duplicated key not allowed"),
			wantStatus: http.StatusConflict,
			check:      IsConflict,
		},
		{
			name:       "foreign key",
			cause:      errors.New(`violates foreign key constraint "fk_author"`),
			wantStatus: http.StatusBadRequest,
			check:      IsForeignKeyConstraintError,
		},
		{
			name:       "record not found",
			cause:      errors.New("record not found"),
			wantStatus: http.StatusNotFound,
			check:      IsNotFound,
		},
		{
			name:       "connection refused",
			cause:      errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			check:      IsDatabaseConnectionError,
		},
		{
			name:       "anything else",
			cause:      errors.New("syntax error at or near"),
			wantStatus: http.StatusInternalServerError,
			check:      func(err error) bool { return errors.Is(err, ErrDatabaseQuery) },
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := NewDatabaseError("save", "tag", testCase.cause)

			assert.Equal(t, testCase.wantStatus, err.StatusCode)
			assert.True(t, testCase.check(err))
			assert.Equal(t, testCase.cause, err.Cause)
		})
	}
}

func TestNewMigrationError(t *testing.T) {
	cause := errors.New(`relation "tags" already exists`)
	err := NewMigrationError(cause)

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.ErrorIs(t, err, ErrMigrationFailed)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "migration", err.Field)
	assert.Equal(t, `migration failed: Schema migration failed -> relation "tags" already exists`, err.GetFullError())
}

func TestRequestValidationCheckers(t *testing.T) {
	assert.True(t, IsMissingRequiredFieldError(NewMissingRequiredFieldError("title")))
	assert.True(t, IsInvalidFieldError(NewInvalidFieldError("title", "too long")))
	assert.True(t, IsInvalidJSONError(NewInvalidJSONError(errors.New("unexpected EOF"))))
	assert.True(t, IsMalformedPayloadError(NewMalformedPayloadError("blog", nil)))
	assert.False(t, IsInvalidJSONError(NewMissingRequiredFieldError("title")))
}

func TestGetFullErrorFollowsCauses(t *testing.T) {
	inner := NewDatabaseError("find", "tags", errors.New("syntax error"))
	outer := NewInternalErrorWithCause("could not add tags", inner)

	assert.Equal(t,
		"could not add tags -> database query failed: Failed to find tags -> syntax error",
		outer.GetFullError())
}
