package model

import "time"

// Series represents a tracked media title owned by a user. It maps to a
// row in the `series` table plus the rows of the two join tables
// `series_tags` and `series_characters`.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – owner of the record; all queries filter on it.
//  Title        – series title, at most 255 characters.
//  StartDate    – when the user started watching; defaults to creation time.
//  Status       – true while the series is currently being watched,
//                 false once finished.
//  WatchRate    – episodes-per-sitting style rate, 1 to 5.
//  Rating       – decimal rating with 2 fractional digits, 0.00–99.99.
//  Link         – optional external URL, may be empty.
//  TagIDs       – ids of attached tags (unordered set, no duplicates).
//  CharacterIDs – ids of attached characters (unordered set, no duplicates).
type Series struct {
	ID           uint64    // series.id
	UserID       uint64    // series.user_id
	Title        string    // series.title
	StartDate    time.Time // series.start_date
	Status       bool      // series.status
	WatchRate    int       // series.watch_rate
	Rating       float64   // series.rating (DECIMAL(4,2))
	Link         string    // series.link
	CreatedAt    time.Time // series.created_at
	UpdatedAt    time.Time // series.updated_at
	TagIDs       []uint64  // series_tags.tag_id for this series
	CharacterIDs []uint64  // series_characters.character_id for this series
}
