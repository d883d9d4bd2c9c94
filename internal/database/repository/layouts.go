package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SavedLayout is one named layout in the library. Config is the resolved
// layout as JSON.
type SavedLayout struct {
	ID        string
	Name      string
	Config    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LayoutEvent records a save, load or delete of a saved layout. Events
// outlive the layout they describe.
type LayoutEvent struct {
	ID         int64
	LayoutID   string
	LayoutName string
	Action     string
	CreatedAt  time.Time
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LayoutRepo handles saved layouts.
type LayoutRepo struct {
	db execer
}

func NewLayoutRepo(db *sql.DB) *LayoutRepo {
	return &LayoutRepo{db: db}
}

// WithTx returns a repo bound to tx.
func (r *LayoutRepo) WithTx(tx *sql.Tx) *LayoutRepo {
	return &LayoutRepo{db: tx}
}

// Upsert inserts l or, when its name is taken, replaces that row's config.
// The stored ID of an existing name is kept.
func (r *LayoutRepo) Upsert(ctx context.Context, l SavedLayout) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO saved_layouts(id, name, config, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
	 config=excluded.config,
	 updated_at=excluded.updated_at;
	`, l.ID, l.Name, l.Config, l.CreatedAt, l.UpdatedAt)
	return err
}

// InsertIfMissing adds l unless a layout with its name exists. It reports
// whether a row was written.
func (r *LayoutRepo) InsertIfMissing(ctx context.Context, l SavedLayout) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO saved_layouts(id, name, config, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(name) DO NOTHING;
	`, l.ID, l.Name, l.Config, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetByName returns sql.ErrNoRows when no layout has that name.
func (r *LayoutRepo) GetByName(ctx context.Context, name string) (SavedLayout, error) {
	var l SavedLayout
	err := r.db.QueryRowContext(ctx, `
	SELECT id, name, config, created_at, updated_at FROM saved_layouts WHERE name = ?
	`, name).Scan(&l.ID, &l.Name, &l.Config, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *LayoutRepo) List(ctx context.Context) ([]SavedLayout, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, config, created_at, updated_at FROM saved_layouts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavedLayout
	for rows.Next() {
		var l SavedLayout
		if err := rows.Scan(&l.ID, &l.Name, &l.Config, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Delete removes the named layout and reports whether it existed.
func (r *LayoutRepo) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_layouts WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *LayoutRepo) RecordEvent(ctx context.Context, l SavedLayout, action string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO layout_events(layout_id, layout_name, action, created_at) VALUES (?, ?, ?, ?)
	`, l.ID, l.Name, action, at)
	return err
}

// Events lists a layout's history, oldest first.
func (r *LayoutRepo) Events(ctx context.Context, layoutID string) ([]LayoutEvent, error) {
	return r.queryEvents(ctx, `
	SELECT id, layout_id, layout_name, action, created_at FROM layout_events WHERE layout_id = ? ORDER BY id
	`, layoutID)
}

// EventsByName lists the history recorded under name, including layouts
// that have since been deleted.
func (r *LayoutRepo) EventsByName(ctx context.Context, name string) ([]LayoutEvent, error) {
	return r.queryEvents(ctx, `
	SELECT id, layout_id, layout_name, action, created_at FROM layout_events WHERE layout_name = ? ORDER BY id
	`, name)
}

func (r *LayoutRepo) queryEvents(ctx context.Context, query string, arg any) ([]LayoutEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LayoutEvent
	for rows.Next() {
		var e LayoutEvent
		if err := rows.Scan(&e.ID, &e.LayoutID, &e.LayoutName, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
