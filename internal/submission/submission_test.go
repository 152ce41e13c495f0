package submission

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// Two concurrent submits of the same URL can both pass the EXISTS check; the
// losing insert must still surface as a duplicate, not a generic failure.
func TestMapInsertErrorUniqueViolation(t *testing.T) {
	uniqueViolation := &pgconn.PgError{Code: "23505", ConstraintName: "submissions_campaign_id_video_url_key"}

	assert.ErrorIs(t, mapInsertError(uniqueViolation), ErrDuplicateSubmission)
	assert.ErrorIs(t, mapInsertError(fmt.Errorf("exec failed: %w", uniqueViolation)), ErrDuplicateSubmission)
}

func TestMapInsertErrorOtherErrors(t *testing.T) {
	deadlock := &pgconn.PgError{Code: "40P01"}
	err := mapInsertError(deadlock)
	assert.NotErrorIs(t, err, ErrDuplicateSubmission)
	assert.ErrorIs(t, err, error(deadlock))

	plain := errors.New("connection reset")
	err = mapInsertError(plain)
	assert.NotErrorIs(t, err, ErrDuplicateSubmission)
	assert.ErrorIs(t, err, plain)
}
