package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// SQLite primary and extended result codes relevant to classification.
// Extended codes carry the primary code in their low byte.
const (
	codeBusy                 = 5
	codeLocked               = 6
	codeConstraint           = 19
	codeConstraintForeignKey = 787
	codeConstraintNotNull    = 1299
	codeConstraintPrimaryKey = 1555
	codeConstraintUnique     = 2067
)

// resultCoder is satisfied by the driver's error type. Matching on the
// interface rather than the concrete type keeps classification testable.
type resultCoder interface {
	Code() int
}

// unitColumns are the schema columns that reference the unit catalog. A
// foreign-key violation whose message names one of these classifies as an
// invalid unit reference. SQLite's generic "FOREIGN KEY constraint failed"
// message usually carries no column, so callers that know which insert failed
// pass a fallback kind instead; the substring scan stays first for
// compatibility with drivers that do include the column.
var unitColumns = []string{"unit_id"}

// classify maps a raw driver error to the closed validation taxonomy. The
// original error stays wrapped underneath.
func classify(err error) error {
	return classifyFK(err, types.ErrInvalidRelatedReference)
}

// classifyFK classifies like classify, but lets the caller pick the kind a
// foreign-key violation maps to when the message does not identify a column.
func classifyFK(err error, fkFallback error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}

	var rc resultCoder
	if !errors.As(err, &rc) {
		return err
	}

	switch code := rc.Code(); code {
	case codeBusy, codeLocked:
		return fmt.Errorf("%w: %w", types.ErrStoreBusy, err)
	case codeConstraintForeignKey:
		kind := fkFallback
		msg := strings.ToLower(err.Error())
		for _, col := range unitColumns {
			if strings.Contains(msg, col) {
				kind = types.ErrInvalidUnitReference
				break
			}
		}
		return fmt.Errorf("%w: %w", kind, err)
	case codeConstraintNotNull:
		return fmt.Errorf("%w: %w", types.ErrMissingRequiredField, err)
	case codeConstraintPrimaryKey, codeConstraintUnique:
		return fmt.Errorf("%w: %w", types.ErrDuplicateRecord, err)
	default:
		if code&0xff == codeConstraint {
			return fmt.Errorf("%w: %w", types.ErrConstraintViolation, err)
		}
		return err
	}
}

// assemblyError wraps a decode failure found while assembling a canonical
// record. Malformed identifiers or JSON in stored rows are data-integrity
// problems and surface as constraint violations, never as skipped rows.
func assemblyError(what string, err error) error {
	return fmt.Errorf("%w: assembling %s: %w", types.ErrConstraintViolation, what, err)
}
