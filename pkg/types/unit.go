package types

import (
	"strings"
	"time"
)

// Unit is a catalog entry for a unit of measure. Units are referenced by
// measure targets, measurements, and contributions, and never reference other
// entities themselves.
//
// The (Unit, UnitType) pair is unique at the application layer only. The
// schema deliberately carries no UNIQUE constraint on it: offline multi-writer
// sync can merge two devices that each created an equivalent row, and a
// storage constraint would make that merge fail. Equivalent duplicates are
// tolerated and reported by the reconciliation pass instead.
type Unit struct {
	ID               string     `json:"id"`
	Unit             string     `json:"unit"`      // e.g. "km"
	UnitType         string     `json:"unit_type"` // e.g. "distance"
	Title            string     `json:"title"`     // display title, defaulted from Unit
	CanonicalUnit    *string    `json:"canonical_unit,omitempty"`
	ConversionFactor *float64   `json:"conversion_factor,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// EquivalentTo reports whether two catalog entries denote the same unit of
// measure, using the case-insensitive identity the catalog coordinator
// resolves by.
func (u Unit) EquivalentTo(other Unit) bool {
	return strings.EqualFold(u.Unit, other.Unit) && strings.EqualFold(u.UnitType, other.UnitType)
}
