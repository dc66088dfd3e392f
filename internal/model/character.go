package model

import "time"

// Character is a user-defined character label attachable to a series via
// the `series_characters` join table. Like tags, characters belong to
// exactly one user.
type Character struct {
	ID        uint64    // characters.id
	UserID    uint64    // characters.user_id
	Name      string    // characters.name
	CreatedAt time.Time // characters.created_at
	UpdatedAt time.Time // characters.updated_at
}
