package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/druidq/internal/filter"
	"github.com/roach88/druidq/internal/ir"
)

// ErrNotFound is returned when no filter is saved under a name.
var ErrNotFound = errors.New("filter not found")

// SavedFilter is one version of a named filter.
type SavedFilter struct {
	Name    string
	Hash    string
	JSON    []byte // Canonical JSON
	Version int
}

// Value decodes the saved JSON.
func (f SavedFilter) Value() (ir.IRObject, error) {
	v, err := ir.UnmarshalIRValue(f.JSON)
	if err != nil {
		return nil, fmt.Errorf("decode saved filter %q: %w", f.Name, err)
	}
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, fmt.Errorf("decode saved filter %q: not an object", f.Name)
	}
	return obj, nil
}

// SaveFilter stores node under name and returns the stored version.
//
// Saving content identical to the latest version is a no-op that returns
// the existing version. Different content creates version+1; every
// version stays readable through FilterVersions.
func (s *Store) SaveFilter(ctx context.Context, name string, node filter.Node) (SavedFilter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedFilter{}, fmt.Errorf("save filter: empty name")
	}

	data, err := filter.Marshal(node)
	if err != nil {
		return SavedFilter{}, fmt.Errorf("save filter %q: %w", name, err)
	}
	hash, err := filter.Hash(node)
	if err != nil {
		return SavedFilter{}, fmt.Errorf("save filter %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SavedFilter{}, fmt.Errorf("save filter %q: begin: %w", name, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	var current SavedFilter
	err = tx.QueryRowContext(ctx,
		`SELECT hash, filter_json, version FROM filters WHERE name = ?`, name,
	).Scan(&current.Hash, &current.JSON, &current.Version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return SavedFilter{}, fmt.Errorf("save filter %q: %w", name, err)
	case current.Hash == hash:
		current.Name = name
		s.logger.Debug("filter unchanged", "name", name, "version", current.Version)
		return current, nil
	}

	saved := SavedFilter{Name: name, Hash: hash, JSON: data, Version: current.Version + 1}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO filters (name, hash, filter_json, version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			hash = excluded.hash,
			filter_json = excluded.filter_json,
			version = excluded.version
	`, saved.Name, saved.Hash, string(saved.JSON), saved.Version)
	if err != nil {
		return SavedFilter{}, fmt.Errorf("save filter %q: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO filter_versions (name, version, hash, filter_json)
		VALUES (?, ?, ?, ?)
	`, saved.Name, saved.Version, saved.Hash, string(saved.JSON))
	if err != nil {
		return SavedFilter{}, fmt.Errorf("save filter %q: record version: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return SavedFilter{}, fmt.Errorf("save filter %q: commit: %w", name, err)
	}
	s.logger.Debug("filter saved", "name", name, "version", saved.Version, "hash", hash)
	return saved, nil
}

// GetFilter returns the latest version saved under name.
// Returns ErrNotFound if there is none.
func (s *Store) GetFilter(ctx context.Context, name string) (SavedFilter, error) {
	f := SavedFilter{Name: name}
	err := s.db.QueryRowContext(ctx,
		`SELECT hash, filter_json, version FROM filters WHERE name = ?`, name,
	).Scan(&f.Hash, &f.JSON, &f.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedFilter{}, fmt.Errorf("get filter %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return SavedFilter{}, fmt.Errorf("get filter %q: %w", name, err)
	}
	return f, nil
}

// ListFilters returns the latest version of every saved filter, ordered by
// name.
func (s *Store) ListFilters(ctx context.Context) ([]SavedFilter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, hash, filter_json, version
		FROM filters
		ORDER BY name ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	return scanFilters(rows)
}

// FilterVersions returns every version saved under name, oldest first.
func (s *Store) FilterVersions(ctx context.Context, name string) ([]SavedFilter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, hash, filter_json, version
		FROM filter_versions
		WHERE name = ?
		ORDER BY version ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("filter versions %q: %w", name, err)
	}
	return scanFilters(rows)
}

// FindByHash returns the names whose latest version has hash, ordered by
// name.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM filters
		WHERE hash = ?
		ORDER BY name ASC COLLATE BINARY
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("find by hash: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	return names, nil
}

// DeleteFilter removes name and all its versions.
// Returns ErrNotFound if nothing was saved under name.
func (s *Store) DeleteFilter(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM filters WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete filter %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete filter %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete filter %q: %w", name, ErrNotFound)
	}
	return nil
}

func scanFilters(rows *sql.Rows) ([]SavedFilter, error) {
	defer rows.Close()

	var out []SavedFilter
	for rows.Next() {
		var f SavedFilter
		if err := rows.Scan(&f.Name, &f.Hash, &f.JSON, &f.Version); err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan filter: %w", err)
	}
	return out, nil
}
