package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// UnitRepo is the unit-of-measure catalog. Every write path that needs a unit
// resolves it here, before its own transaction begins, so composite writes
// can never fail on a missing catalog reference.
//
// The catalog is shared mutable state across otherwise unrelated write paths,
// and it is never locked: safety comes from GetOrCreate being idempotent, not
// from mutual exclusion. Two callers racing on the same (unit, type) can each
// insert a row; both rows are individually valid catalog entries, referential
// integrity is unharmed, and Duplicates reports them for later reconciliation.
// True cross-device locking is unachievable under offline sync anyway, so the
// single-process case accepts the same trade-off.
type UnitRepo struct {
	store *Store
}

var _ Repository[types.Unit] = (*UnitRepo)(nil)

const unitColumnsSelect = `unit_id, unit, unit_type, title, canonical_unit, conversion_factor, created_at`

var displayTitle = cases.Title(language.English)

// GetOrCreate returns the existing catalog entry matching (unit, unitType)
// case-insensitively, or inserts one and returns it. Repeated calls with an
// equivalent pair return the same identifier. An existing entry is returned
// unchanged; in particular a differing title does not update it.
func (r *UnitRepo) GetOrCreate(ctx context.Context, unit, unitType, title string) (*types.Unit, error) {
	unit = strings.TrimSpace(unit)
	unitType = strings.TrimSpace(unitType)
	if unit == "" {
		return nil, types.ErrUnitEmpty
	}
	if unitType == "" {
		return nil, types.ErrUnitTypeEmpty
	}

	existing, err := r.lookup(ctx, unit, unitType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if title == "" {
		title = displayTitle.String(unit)
	}
	u := &types.Unit{
		ID:        newID(),
		Unit:      unit,
		UnitType:  unitType,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	err = r.store.retry(ctx, func() error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT INTO units (unit_id, unit, unit_type, title, created_at) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Unit, u.UnitType, u.Title, formatTime(u.CreatedAt))
		return err
	})
	if err != nil {
		return nil, err
	}
	r.store.log.Debug().Str("unit", unit).Str("type", unitType).Str("id", u.ID).
		Msg("catalog unit created")
	return u, nil
}

// lookup finds the oldest catalog entry matching (unit, unitType)
// case-insensitively. Oldest-first keeps repeated calls stable even when
// duplicate rows exist.
func (r *UnitRepo) lookup(ctx context.Context, unit, unitType string) (*types.Unit, error) {
	rows, err := r.store.query(ctx,
		`SELECT `+unitColumnsSelect+` FROM units
		  WHERE unit = ? COLLATE NOCASE AND unit_type = ? COLLATE NOCASE
		  ORDER BY created_at ASC, unit_id ASC LIMIT 1`,
		unit, unitType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	u, err := scanUnit(rows)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FetchAll returns the whole catalog ordered by (type, unit).
func (r *UnitRepo) FetchAll(ctx context.Context) ([]types.Unit, error) {
	return r.fetch(ctx, "", nil)
}

// FetchForExport returns catalog entries created within [from, to]. Nil
// bounds fetch everything.
func (r *UnitRepo) FetchForExport(ctx context.Context, from, to *time.Time) ([]types.Unit, error) {
	clause, args, empty := dateRange("created_at", from, to)
	if empty {
		return []types.Unit{}, nil
	}
	return r.fetch(ctx, clause, args)
}

// Fetch returns one page of the catalog.
func (r *UnitRepo) Fetch(ctx context.Context, limit, offset int) ([]types.Unit, error) {
	return r.fetchOrdered(ctx, "", nil,
		" ORDER BY unit_type, unit, created_at"+limitOffset(limit, offset))
}

// FetchRecent returns the most recently created entries first.
func (r *UnitRepo) FetchRecent(ctx context.Context, limit int) ([]types.Unit, error) {
	return r.fetchOrdered(ctx, "", nil,
		" ORDER BY created_at DESC, unit_id DESC"+limitOffset(limit, 0))
}

// Exists reports whether a catalog entry with the given identifier exists.
func (r *UnitRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.exists(ctx, "units", "unit_id", id)
}

// Duplicates returns groups of two or more catalog rows sharing the same
// case-insensitive (unit, type) identity, oldest first within each group.
// This is the read side of catalog reconciliation; merging is out of band.
func (r *UnitRepo) Duplicates(ctx context.Context) ([][]types.Unit, error) {
	all, err := r.fetchOrdered(ctx, "", nil,
		" ORDER BY lower(unit_type), lower(unit), created_at, unit_id")
	if err != nil {
		return nil, err
	}
	var groups [][]types.Unit
	for i := 0; i < len(all); {
		j := i + 1
		for j < len(all) && all[j].EquivalentTo(all[i]) {
			j++
		}
		if j-i > 1 {
			groups = append(groups, all[i:j])
		}
		i = j
	}
	return groups, nil
}

func (r *UnitRepo) fetch(ctx context.Context, clause string, args []any) ([]types.Unit, error) {
	return r.fetchOrdered(ctx, clause, args, " ORDER BY unit_type, unit, created_at")
}

func (r *UnitRepo) fetchOrdered(ctx context.Context, clause string, args []any, tail string) ([]types.Unit, error) {
	rows, err := r.store.query(ctx,
		`SELECT `+unitColumnsSelect+` FROM units WHERE 1=1`+clause+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := []types.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return units, nil
}

func scanUnit(rows *sql.Rows) (*types.Unit, error) {
	var u types.Unit
	var canonical sql.NullString
	var factor sql.NullFloat64
	var createdAt string
	if err := rows.Scan(&u.ID, &u.Unit, &u.UnitType, &u.Title, &canonical, &factor, &createdAt); err != nil {
		return nil, classify(err)
	}
	var err error
	if _, err = parseID(u.ID, "unit"); err != nil {
		return nil, err
	}
	u.CreatedAt, err = parseTime(createdAt, "unit created_at")
	if err != nil {
		return nil, err
	}
	u.CanonicalUnit = optString(canonical)
	u.ConversionFactor = optFloat(factor)
	return &u, nil
}
