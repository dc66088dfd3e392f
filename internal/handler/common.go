// Package handler contains the Echo HTTP handlers for the API. Handlers
// depend on small store interfaces rather than concrete repositories so
// tests can substitute in-memory fakes; the repository package provides
// the MySQL implementations.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Akshaychdev/RESTapi-app-series/internal/model"
	"github.com/Akshaychdev/RESTapi-app-series/internal/queue"
)

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// TagStore persists user-owned tags.
type TagStore interface {
	Create(ctx context.Context, ownerID uint64, name string) (*model.Tag, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Tag, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Tag, error)
	UpdateName(ctx context.Context, id, ownerID uint64, name string) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
	CountOwned(ctx context.Context, ownerID uint64, ids []uint64) (int, error)
}

// CharacterStore persists user-owned characters.
type CharacterStore interface {
	Create(ctx context.Context, ownerID uint64, name string) (*model.Character, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Character, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Character, error)
	UpdateName(ctx context.Context, id, ownerID uint64, name string) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
	CountOwned(ctx context.Context, ownerID uint64, ids []uint64) (int, error)
}

// SeriesStore persists series records together with their tag and
// character sets.
type SeriesStore interface {
	Create(ctx context.Context, s *model.Series) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Series, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Series, error)
	Update(ctx context.Context, s *model.Series, replaceTags, replaceCharacters bool) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
	TagsForSeries(ctx context.Context, seriesID uint64) ([]*model.Tag, error)
	CharactersForSeries(ctx context.Context, seriesID uint64) ([]*model.Character, error)
}

// EventPublisher emits series activity events to the message broker.
type EventPublisher interface {
	PublishSeriesActivity(ctx context.Context, ev queue.SeriesActivityEvent) error
}

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64. JWT numeric claims decode as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseIDParam parses the numeric :id path parameter.
func parseIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// dedupIDs removes duplicate ids while preserving first-seen order. The
// m2m sets are unordered with no duplicate membership, so repeats in a
// payload collapse silently instead of failing the insert.
func dedupIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
