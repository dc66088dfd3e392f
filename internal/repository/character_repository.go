// This file defines repository methods for characters. Characters mirror
// tags structurally: user-owned labels joined to series through the
// series_characters table.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Akshaychdev/RESTapi-app-series/internal/model"
)

// ErrCharacterNotFound is returned when a character cannot be found for
// the caller.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterRepo encapsulates all database queries related to characters.
type CharacterRepo struct {
	db *sql.DB
}

// NewCharacterRepo constructs a CharacterRepo with the provided DB handle.
func NewCharacterRepo(db *sql.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// Create inserts a new character for the owner and returns the stored
// record with its generated id and timestamps populated.
func (r *CharacterRepo) Create(ctx context.Context, ownerID uint64, name string) (*model.Character, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO characters (user_id, name) VALUES (?, ?)", ownerID, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, uint64(id), ownerID)
}

// GetByIDAndOwner fetches a character by id only if it belongs to the
// owner.
func (r *CharacterRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Character, error) {
	const q = "SELECT id, user_id, name, created_at, updated_at FROM characters WHERE id = ? AND user_id = ?"
	var ch model.Character
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&ch.ID, &ch.UserID, &ch.Name, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return &ch, nil
}

// ListByOwner returns all characters for the owner, most recent first.
func (r *CharacterRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Character, error) {
	const q = `SELECT id, user_id, name, created_at, updated_at
	           FROM characters WHERE user_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Character
	for rows.Next() {
		ch := new(model.Character)
		if err := rows.Scan(&ch.ID, &ch.UserID, &ch.Name, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames the character if it belongs to the provided owner.
func (r *CharacterRepo) UpdateName(ctx context.Context, id, ownerID uint64, name string) error {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	const q = `UPDATE characters
	           SET name = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, q, name, id, ownerID)
	return err
}

// DeleteByIDAndOwner removes a character and its series associations,
// provided it belongs to the owner.
func (r *CharacterRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (err error) {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM series_characters WHERE character_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM characters WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrCharacterNotFound
		return err
	}
	return nil
}

// CountOwned returns how many of the given character ids belong to the
// owner.
func (r *CharacterRepo) CountOwned(ctx context.Context, ownerID uint64, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := "SELECT COUNT(*) FROM characters WHERE user_id = ? AND id IN (" + placeholders(len(ids)) + ")"
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
