package handler

// In-memory store fakes backing the handler tests. They implement the
// same ownership filtering as the MySQL repositories: records belonging
// to another user are reported as not found.

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/Akshaychdev/RESTapi-app-series/internal/model"
	"github.com/Akshaychdev/RESTapi-app-series/internal/queue"
	"github.com/Akshaychdev/RESTapi-app-series/internal/repository"
	"github.com/Akshaychdev/RESTapi-app-series/internal/utils"
)

type fakeTagStore struct {
	nextID uint64
	tags   map[uint64]*model.Tag
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{tags: map[uint64]*model.Tag{}}
}

func (f *fakeTagStore) Create(_ context.Context, ownerID uint64, name string) (*model.Tag, error) {
	f.nextID++
	t := &model.Tag{ID: f.nextID, UserID: ownerID, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.tags[t.ID] = t
	return t, nil
}

func (f *fakeTagStore) GetByIDAndOwner(_ context.Context, id, ownerID uint64) (*model.Tag, error) {
	t, ok := f.tags[id]
	if !ok || t.UserID != ownerID {
		return nil, repository.ErrTagNotFound
	}
	return t, nil
}

func (f *fakeTagStore) ListByOwner(_ context.Context, ownerID uint64) ([]*model.Tag, error) {
	var out []*model.Tag
	for _, t := range f.tags {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeTagStore) UpdateName(_ context.Context, id, ownerID uint64, name string) error {
	t, ok := f.tags[id]
	if !ok || t.UserID != ownerID {
		return repository.ErrTagNotFound
	}
	t.Name = name
	return nil
}

func (f *fakeTagStore) DeleteByIDAndOwner(_ context.Context, id, ownerID uint64) error {
	t, ok := f.tags[id]
	if !ok || t.UserID != ownerID {
		return repository.ErrTagNotFound
	}
	delete(f.tags, id)
	return nil
}

func (f *fakeTagStore) CountOwned(_ context.Context, ownerID uint64, ids []uint64) (int, error) {
	n := 0
	for _, id := range ids {
		if t, ok := f.tags[id]; ok && t.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

type fakeCharacterStore struct {
	nextID uint64
	chars  map[uint64]*model.Character
}

func newFakeCharacterStore() *fakeCharacterStore {
	return &fakeCharacterStore{chars: map[uint64]*model.Character{}}
}

func (f *fakeCharacterStore) Create(_ context.Context, ownerID uint64, name string) (*model.Character, error) {
	f.nextID++
	ch := &model.Character{ID: f.nextID, UserID: ownerID, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.chars[ch.ID] = ch
	return ch, nil
}

func (f *fakeCharacterStore) GetByIDAndOwner(_ context.Context, id, ownerID uint64) (*model.Character, error) {
	ch, ok := f.chars[id]
	if !ok || ch.UserID != ownerID {
		return nil, repository.ErrCharacterNotFound
	}
	return ch, nil
}

func (f *fakeCharacterStore) ListByOwner(_ context.Context, ownerID uint64) ([]*model.Character, error) {
	var out []*model.Character
	for _, ch := range f.chars {
		if ch.UserID == ownerID {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCharacterStore) UpdateName(_ context.Context, id, ownerID uint64, name string) error {
	ch, ok := f.chars[id]
	if !ok || ch.UserID != ownerID {
		return repository.ErrCharacterNotFound
	}
	ch.Name = name
	return nil
}

func (f *fakeCharacterStore) DeleteByIDAndOwner(_ context.Context, id, ownerID uint64) error {
	ch, ok := f.chars[id]
	if !ok || ch.UserID != ownerID {
		return repository.ErrCharacterNotFound
	}
	delete(f.chars, id)
	return nil
}

func (f *fakeCharacterStore) CountOwned(_ context.Context, ownerID uint64, ids []uint64) (int, error) {
	n := 0
	for _, id := range ids {
		if ch, ok := f.chars[id]; ok && ch.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

type fakeSeriesStore struct {
	nextID uint64
	series map[uint64]*model.Series
	tags   *fakeTagStore
	chars  *fakeCharacterStore
}

func newFakeSeriesStore(tags *fakeTagStore, chars *fakeCharacterStore) *fakeSeriesStore {
	return &fakeSeriesStore{series: map[uint64]*model.Series{}, tags: tags, chars: chars}
}

func copySeries(s *model.Series) *model.Series {
	cp := *s
	cp.TagIDs = append([]uint64(nil), s.TagIDs...)
	cp.CharacterIDs = append([]uint64(nil), s.CharacterIDs...)
	return &cp
}

func (f *fakeSeriesStore) Create(_ context.Context, s *model.Series) error {
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	f.series[s.ID] = copySeries(s)
	return nil
}

func (f *fakeSeriesStore) GetByIDAndOwner(_ context.Context, id, ownerID uint64) (*model.Series, error) {
	s, ok := f.series[id]
	if !ok || s.UserID != ownerID {
		return nil, repository.ErrSeriesNotFound
	}
	return copySeries(s), nil
}

func (f *fakeSeriesStore) ListByOwner(_ context.Context, ownerID uint64) ([]*model.Series, error) {
	var out []*model.Series
	for _, s := range f.series {
		if s.UserID == ownerID {
			out = append(out, copySeries(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeSeriesStore) Update(_ context.Context, s *model.Series, replaceTags, replaceCharacters bool) error {
	cur, ok := f.series[s.ID]
	if !ok || cur.UserID != s.UserID {
		return repository.ErrSeriesNotFound
	}
	next := copySeries(s)
	if !replaceTags {
		next.TagIDs = append([]uint64(nil), cur.TagIDs...)
	}
	if !replaceCharacters {
		next.CharacterIDs = append([]uint64(nil), cur.CharacterIDs...)
	}
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now()
	f.series[s.ID] = next
	return nil
}

func (f *fakeSeriesStore) DeleteByIDAndOwner(_ context.Context, id, ownerID uint64) error {
	s, ok := f.series[id]
	if !ok || s.UserID != ownerID {
		return repository.ErrSeriesNotFound
	}
	delete(f.series, id)
	return nil
}

func (f *fakeSeriesStore) TagsForSeries(_ context.Context, seriesID uint64) ([]*model.Tag, error) {
	s, ok := f.series[seriesID]
	if !ok {
		return nil, repository.ErrSeriesNotFound
	}
	var out []*model.Tag
	for _, id := range s.TagIDs {
		if t, ok := f.tags.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeSeriesStore) CharactersForSeries(_ context.Context, seriesID uint64) ([]*model.Character, error) {
	s, ok := f.series[seriesID]
	if !ok {
		return nil, repository.ErrSeriesNotFound
	}
	var out []*model.Character
	for _, id := range s.CharacterIDs {
		if ch, ok := f.chars.chars[id]; ok {
			out = append(out, ch)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	nextID uint64
	users  map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, email, password string, cost int) (uint64, error) {
	for _, u := range f.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.nextID++
	f.users[f.nextID] = model.User{ID: f.nextID, Email: email, PasswordHash: hash, IsActive: true}
	return f.nextID, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeTokenStore struct {
	rows map[string]model.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: map[string]model.RefreshToken{}}
}

func (f *fakeTokenStore) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	f.rows[tokenHash] = model.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: exp}
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	row, ok := f.rows[tokenHash]
	if !ok || row.RevokedAt != nil || time.Now().UTC().After(row.ExpiresAt) {
		return 0, sql.ErrNoRows
	}
	return row.UserID, nil
}

func (f *fakeTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	if row, ok := f.rows[tokenHash]; ok {
		now := time.Now()
		row.RevokedAt = &now
		f.rows[tokenHash] = row
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	for hash, row := range f.rows {
		if row.UserID == userID && row.RevokedAt == nil {
			now := time.Now()
			row.RevokedAt = &now
			f.rows[hash] = row
		}
	}
	return nil
}

// fakePublisher records emitted events.
type fakePublisher struct {
	events []queue.SeriesActivityEvent
}

func (f *fakePublisher) PublishSeriesActivity(_ context.Context, ev queue.SeriesActivityEvent) error {
	f.events = append(f.events, ev)
	return nil
}
