// Package storage implements the registry store: three independent
// collections (users, admins, codes) persisted in Postgres.
//
// Every mutation is a single SQL statement, so concurrent writers observe
// either the pre- or post-mutation state, never a partial one.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CodeEntry is one row of the code registry.
type CodeEntry struct {
	Code      string `db:"code"`
	MessageID int64  `db:"message_id"`
}

// Registry provides CRUD over the users, admins and codes collections.
type Registry struct {
	db *sqlx.DB
}

// NewRegistry creates a Registry on top of an open connection pool.
func NewRegistry(db *sqlx.DB) *Registry {
	return &Registry{db: db}
}

// AddUser inserts the user id into the users collection. Inserting an
// existing id is a no-op.
func (r *Registry) AddUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// CountUsers returns the number of enrolled users.
func (r *Registry) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// AddAdmin inserts the id into the admins collection. Inserting an existing
// id is a no-op. The id does not have to exist in the users collection.
func (r *Registry) AddAdmin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	return nil
}

// IsAdmin reports whether the id belongs to the admins collection.
func (r *Registry) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("is admin: %w", err)
	}
	return exists, nil
}

// ListAdmins returns all admin ids.
func (r *Registry) ListAdmins(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM admins ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return ids, nil
}

// UpsertCode maps the code to a channel message id. An existing code is
// overwritten: last write wins, no error on duplicate.
func (r *Registry) UpsertCode(ctx context.Context, code string, messageID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO codes (code, message_id) VALUES ($1, $2)
		 ON CONFLICT (code) DO UPDATE SET message_id = EXCLUDED.message_id`,
		code, messageID)
	if err != nil {
		return fmt.Errorf("upsert code: %w", err)
	}
	return nil
}

// RemoveCode deletes the code if present; removing an absent code is a no-op.
func (r *Registry) RemoveCode(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM codes WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("remove code: %w", err)
	}
	return nil
}

// CodeMessageID looks up the message id mapped to the code. The second
// return value reports whether the code exists.
func (r *Registry) CodeMessageID(ctx context.Context, code string) (int64, bool, error) {
	var messageID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT message_id FROM codes WHERE code = $1`, code).Scan(&messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("code lookup: %w", err)
	}
	return messageID, true, nil
}

// ListCodes returns the whole code registry sorted by code for display.
func (r *Registry) ListCodes(ctx context.Context) ([]CodeEntry, error) {
	var entries []CodeEntry
	if err := r.db.SelectContext(ctx, &entries, `SELECT code, message_id FROM codes ORDER BY code`); err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	return entries, nil
}

// CountCodes returns the number of registered codes.
func (r *Registry) CountCodes(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM codes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count codes: %w", err)
	}
	return n, nil
}
