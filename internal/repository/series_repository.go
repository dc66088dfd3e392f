// This file defines repository methods for series records. A Series row
// carries the scalar watch metadata; its tag and character sets live in
// the series_tags and series_characters join tables and are written
// together with the series row inside a single transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Akshaychdev/RESTapi-app-series/internal/model"
)

// ErrSeriesNotFound is returned when a series cannot be found for the
// caller. Rows owned by other users intentionally report the same error.
var ErrSeriesNotFound = errors.New("series not found")

// SeriesRepo manages persistence for series and their m2m associations.
type SeriesRepo struct {
	db *sql.DB
}

// NewSeriesRepo constructs a SeriesRepo with the provided DB handle.
func NewSeriesRepo(db *sql.DB) *SeriesRepo {
	return &SeriesRepo{db: db}
}

const seriesCols = "id, user_id, title, start_date, status, watch_rate, rating, link, created_at, updated_at"

func scanSeries(row interface{ Scan(...any) error }, s *model.Series) error {
	return row.Scan(&s.ID, &s.UserID, &s.Title, &s.StartDate, &s.Status,
		&s.WatchRate, &s.Rating, &s.Link, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a new series plus its join rows. On success the ID,
// CreatedAt and UpdatedAt fields of s are populated.
func (r *SeriesRepo) Create(ctx context.Context, s *model.Series) (err error) {
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

	const qInsert = `INSERT INTO series (user_id, title, start_date, status, watch_rate, rating, link)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		s.UserID, s.Title, s.StartDate, s.Status, s.WatchRate, s.Rating, s.Link)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	if err = insertJoinRows(ctx, tx, "series_tags", "tag_id", s.ID, s.TagIDs); err != nil {
		return err
	}
	if err = insertJoinRows(ctx, tx, "series_characters", "character_id", s.ID, s.CharacterIDs); err != nil {
		return err
	}

	// Follow-up SELECT to populate DB-default timestamp fields.
	const qSelect = "SELECT created_at, updated_at FROM series WHERE id = ?"
	if err = tx.QueryRowContext(ctx, qSelect, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	return nil
}

// GetByIDAndOwner fetches a series by id only if it belongs to the owner,
// with its tag and character id sets populated.
func (r *SeriesRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Series, error) {
	const q = "SELECT " + seriesCols + " FROM series WHERE id = ? AND user_id = ?"
	var s model.Series
	if err := scanSeries(r.db.QueryRowContext(ctx, q, id, ownerID), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	var err error
	if s.TagIDs, err = r.joinIDs(ctx, "series_tags", "tag_id", s.ID); err != nil {
		return nil, err
	}
	if s.CharacterIDs, err = r.joinIDs(ctx, "series_characters", "character_id", s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns all series for the owner ordered by descending id
// (most recent first), each with its tag/character id sets populated.
func (r *SeriesRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Series, error) {
	const q = "SELECT " + seriesCols + " FROM series WHERE user_id = ? ORDER BY id DESC"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Series
	byID := map[uint64]*model.Series{}
	for rows.Next() {
		s := new(model.Series)
		if err := scanSeries(rows, s); err != nil {
			return nil, err
		}
		out = append(out, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// One query per join table covers the whole list.
	if err := r.fillJoinIDs(ctx, "series_tags", "tag_id", ownerID, byID, func(s *model.Series, id uint64) {
		s.TagIDs = append(s.TagIDs, id)
	}); err != nil {
		return nil, err
	}
	if err := r.fillJoinIDs(ctx, "series_characters", "character_id", ownerID, byID, func(s *model.Series, id uint64) {
		s.CharacterIDs = append(s.CharacterIDs, id)
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the scalar columns of a series owned by s.UserID.
// When replaceTags or replaceCharacters is true the corresponding join
// table rows are replaced wholesale with s.TagIDs / s.CharacterIDs;
// otherwise the existing associations are left untouched. Callers are
// expected to have loaded the row first, so a missing record surfaces as
// ErrSeriesNotFound.
func (r *SeriesRepo) Update(ctx context.Context, s *model.Series, replaceTags, replaceCharacters bool) (err error) {
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

	// Verify the row exists for this owner inside the transaction. A
	// plain affected-rows check does not work here: MySQL reports zero
	// affected rows for updates that change nothing.
	var dbID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM series WHERE id = ? AND user_id = ?`, s.ID, s.UserID).Scan(&dbID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrSeriesNotFound
		}
		return err
	}

	const qUpdate = `UPDATE series
	                 SET title = ?, start_date = ?, status = ?, watch_rate = ?, rating = ?, link = ?,
	                     updated_at = CURRENT_TIMESTAMP
	                 WHERE id = ? AND user_id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate,
		s.Title, s.StartDate, s.Status, s.WatchRate, s.Rating, s.Link, s.ID, s.UserID); err != nil {
		return err
	}

	if replaceTags {
		if _, err = tx.ExecContext(ctx, `DELETE FROM series_tags WHERE series_id = ?`, s.ID); err != nil {
			return err
		}
		if err = insertJoinRows(ctx, tx, "series_tags", "tag_id", s.ID, s.TagIDs); err != nil {
			return err
		}
	}
	if replaceCharacters {
		if _, err = tx.ExecContext(ctx, `DELETE FROM series_characters WHERE series_id = ?`, s.ID); err != nil {
			return err
		}
		if err = insertJoinRows(ctx, tx, "series_characters", "character_id", s.ID, s.CharacterIDs); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByIDAndOwner removes a series and its join rows, provided it
// belongs to the owner.
func (r *SeriesRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (err error) {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM series_tags WHERE series_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM series_characters WHERE series_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM series WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrSeriesNotFound
		return err
	}
	return nil
}

// TagsForSeries returns the full tag records attached to a series. Used
// by the detail representation, which expands ids into id+name objects.
func (r *SeriesRepo) TagsForSeries(ctx context.Context, seriesID uint64) ([]*model.Tag, error) {
	const q = `SELECT t.id, t.user_id, t.name, t.created_at, t.updated_at
	           FROM tags t
	           JOIN series_tags st ON st.tag_id = t.id
	           WHERE st.series_id = ? ORDER BY t.id`
	rows, err := r.db.QueryContext(ctx, q, seriesID)
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
	return out, rows.Err()
}

// CharactersForSeries returns the full character records attached to a
// series.
func (r *SeriesRepo) CharactersForSeries(ctx context.Context, seriesID uint64) ([]*model.Character, error) {
	const q = `SELECT c.id, c.user_id, c.name, c.created_at, c.updated_at
	           FROM characters c
	           JOIN series_characters sc ON sc.character_id = c.id
	           WHERE sc.series_id = ? ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, q, seriesID)
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
	return out, rows.Err()
}

// joinIDs loads the related ids of one join table for a single series.
func (r *SeriesRepo) joinIDs(ctx context.Context, table, col string, seriesID uint64) ([]uint64, error) {
	q := "SELECT " + col + " FROM " + table + " WHERE series_id = ? ORDER BY " + col
	rows, err := r.db.QueryContext(ctx, q, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// fillJoinIDs loads the join rows of every series owned by ownerID in one
// query and distributes them via assign.
func (r *SeriesRepo) fillJoinIDs(ctx context.Context, table, col string, ownerID uint64,
	byID map[uint64]*model.Series, assign func(*model.Series, uint64)) error {
	q := `SELECT j.series_id, j.` + col + `
	      FROM ` + table + ` j
	      JOIN series s ON s.id = j.series_id
	      WHERE s.user_id = ? ORDER BY j.` + col
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var seriesID, relID uint64
		if err := rows.Scan(&seriesID, &relID); err != nil {
			return err
		}
		if s, ok := byID[seriesID]; ok {
			assign(s, relID)
		}
	}
	return rows.Err()
}

// insertJoinRows adds one row per related id. The ids are assumed to be
// deduplicated by the caller; the composite primary key rejects repeats.
func insertJoinRows(ctx context.Context, tx *sql.Tx, table, col string, seriesID uint64, ids []uint64) error {
	for _, id := range ids {
		q := "INSERT INTO " + table + " (series_id, " + col + ") VALUES (?, ?)"
		if _, err := tx.ExecContext(ctx, q, seriesID, id); err != nil {
			return err
		}
	}
	return nil
}
