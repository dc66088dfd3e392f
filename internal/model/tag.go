package model

import "time"

// Tag is a user-defined label attachable to a series via the
// `series_tags` join table. Tags belong to exactly one user.
type Tag struct {
	ID        uint64    // tags.id
	UserID    uint64    // tags.user_id
	Name      string    // tags.name
	CreatedAt time.Time // tags.created_at
	UpdatedAt time.Time // tags.updated_at
}
