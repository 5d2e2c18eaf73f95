// Package types defines the canonical record types, validation errors, and
// configuration for the Pursuit store.
//
// Canonical records are flat, self-contained snapshots of one root entity
// plus all of its related child data. They are computed on every read and
// never persisted as such; the same shape feeds display, export, and any
// other consumer. Child collections are always non-nil: a record with no
// children carries empty slices.
package types
