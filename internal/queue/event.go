// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// Actions recorded on the series.activity queue.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// SeriesActivityEvent is published whenever a series is created, updated
// or deleted. It carries enough information for downstream consumers to
// log or trigger analytics without querying the primary database.
type SeriesActivityEvent struct {
	Action     string `json:"action"` // created | updated | deleted
	SeriesID   uint64 `json:"series_id"`
	UserID     uint64 `json:"user_id"`
	Title      string `json:"title"`
	OccurredAt string `json:"occurred_at"` // RFC 3339 UTC
}
