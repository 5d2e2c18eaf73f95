package types

import "errors"

// Validation errors form a closed taxonomy. Store-level errors are classified
// into exactly one of these before they reach a caller; the raw driver error
// stays wrapped underneath for debugging but is never shown to users.
var (
	// ErrInvalidUnitReference is a foreign-key violation implicating a
	// unit-of-measure column.
	ErrInvalidUnitReference = errors.New("invalid unit of measure reference")

	// ErrInvalidRelatedReference is a foreign-key violation implicating any
	// other related entity (goal, value, action, period).
	ErrInvalidRelatedReference = errors.New("invalid related entity reference")

	// ErrDuplicateRecord covers application-layer uniqueness (value titles,
	// unit catalog pairs) and primary-key collisions.
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrMissingRequiredField is a not-null violation or a structurally
	// incomplete form.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrConstraintViolation is any other constraint failure, including
	// assembly-time failures (malformed identifier or JSON in stored rows).
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrStoreBusy means the store is temporarily locked. Callers retry
	// transparently; it should not surface to users.
	ErrStoreBusy = errors.New("store temporarily unavailable")
)

// General access errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record identifier")
)

// Form validation errors.
var (
	ErrTitleEmpty      = errors.New("title must not be empty")
	ErrImportanceRange = errors.New("importance must be between 1 and 10")
	ErrUrgencyRange    = errors.New("urgency must be between 1 and 10")
	ErrStrengthRange   = errors.New("alignment strength must be between 1 and 10")
	ErrUnitEmpty       = errors.New("unit must not be empty")
	ErrUnitTypeEmpty   = errors.New("unit type must not be empty")
	ErrPeriodRange     = errors.New("period end date must not precede start date")
)

// userMessages maps each taxonomy kind to the message shown to callers.
// Raw store messages never surface; they can leak schema internals.
var userMessages = []struct {
	kind error
	msg  string
}{
	{ErrInvalidUnitReference, "The referenced unit of measure does not exist."},
	{ErrInvalidRelatedReference, "A referenced record does not exist."},
	{ErrDuplicateRecord, "A record with the same identity already exists."},
	{ErrMissingRequiredField, "A required field is missing."},
	{ErrConstraintViolation, "The data could not be saved due to a consistency problem."},
	{ErrStoreBusy, "The store is busy. Please try again."},
	{ErrNotFound, "The requested record was not found."},
}

// UserMessage returns a human-readable message for a classified error.
// Errors outside the taxonomy (form validation, flag parsing) carry
// user-appropriate text already and pass through unchanged.
func UserMessage(err error) string {
	for _, um := range userMessages {
		if errors.Is(err, um.kind) {
			return um.msg
		}
	}
	return err.Error()
}

// IsTransient reports whether the error should be retried rather than
// surfaced.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreBusy)
}
