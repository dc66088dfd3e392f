// Package repository contains data access logic separated from HTTP
// handlers. This file defines repository methods for tags. A Tag is a
// user-defined label attachable to series; every query filters on the
// owning user so that records never leak across accounts.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Akshaychdev/RESTapi-app-series/internal/model"
)

// ErrTagNotFound is returned when a tag cannot be found for the caller.
var ErrTagNotFound = errors.New("tag not found")

// TagRepo encapsulates all database queries related to tags.
type TagRepo struct {
	db *sql.DB
}

// NewTagRepo constructs a TagRepo with the provided DB handle.
func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

// Create inserts a new tag for the owner and returns the stored record
// with its generated id and timestamp fields populated.
func (r *TagRepo) Create(ctx context.Context, ownerID uint64, name string) (*model.Tag, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tags (user_id, name) VALUES (?, ?)", ownerID, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, uint64(id), ownerID)
}

// GetByIDAndOwner fetches a tag by id only if it belongs to the owner.
// Missing rows and rows owned by someone else both report ErrTagNotFound.
func (r *TagRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Tag, error) {
	const q = "SELECT id, user_id, name, created_at, updated_at FROM tags WHERE id = ? AND user_id = ?"
	var t model.Tag
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByOwner returns all tags for the owner, most recent first.
func (r *TagRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Tag, error) {
	const q = `SELECT id, user_id, name, created_at, updated_at
	           FROM tags WHERE user_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Tag
	for rows.Next() {
		t := new(model.Tag)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames the tag if it belongs to the provided owner. It
// returns ErrTagNotFound when the row does not exist for that owner.
func (r *TagRepo) UpdateName(ctx context.Context, id, ownerID uint64, name string) error {
	// Ownership is verified with a separate SELECT because MySQL reports
	// zero affected rows for no-op updates, which would be
	// indistinguishable from a missing record.
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	const q = `UPDATE tags
	           SET name = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, q, name, id, ownerID)
	return err
}

// DeleteByIDAndOwner removes a tag and its series associations, provided
// the tag belongs to the owner. ErrTagNotFound is returned otherwise.
func (r *TagRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM series_tags WHERE tag_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrTagNotFound
		return err
	}
	return nil
}

// CountOwned returns how many of the given tag ids belong to the owner.
// Callers compare the count against the number of distinct ids to detect
// references to missing or foreign tags.
func (r *TagRepo) CountOwned(ctx context.Context, ownerID uint64, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := "SELECT COUNT(*) FROM tags WHERE user_id = ? AND id IN (" + placeholders(len(ids)) + ")"
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// placeholders builds a "?,?,?" list for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
