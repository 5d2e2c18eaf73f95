// Package planner builds composite records on top of the store. Each create
// runs in two phases: catalog references are resolved through the
// unit-of-measure catalog before any transaction begins, then one atomic
// transaction writes the entity and its child rows using resolved identifiers
// only. A composite write can therefore never fail on a missing catalog
// reference; if it fails for another reason, the pre-resolved catalog rows
// remain behind, individually valid and reusable.
package planner

import (
	"github.com/rs/zerolog"

	"github.com/pursuit-labs/pursuit/internal/sqlite"
)

// Planner coordinates composite writes against one store.
type Planner struct {
	store *sqlite.Store
	log   zerolog.Logger
}

// New returns a planner over the given store.
func New(store *sqlite.Store, log zerolog.Logger) *Planner {
	return &Planner{store: store, log: log}
}

// UnitRef names a unit of measure symbolically. Title is optional; it only
// applies when the reference creates a new catalog entry.
type UnitRef struct {
	Unit     string
	UnitType string
	Title    string
}
