package handler

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Akshaychdev/RESTapi-app-series/internal/model"
	"github.com/Akshaychdev/RESTapi-app-series/internal/queue"
	"github.com/Akshaychdev/RESTapi-app-series/internal/repository"
)

// SeriesHandler serves the /v1/series resource. It needs the tag and
// character stores as well, to verify that ids referenced in payloads
// belong to the caller. Events is optional; when set, mutations emit a
// best-effort activity event to the broker.
type SeriesHandler struct {
	Series     SeriesStore
	Tags       TagStore
	Characters CharacterStore
	Events     EventPublisher
}

func NewSeriesHandler(series SeriesStore, tags TagStore, chars CharacterStore, events EventPublisher) *SeriesHandler {
	if series == nil || tags == nil || chars == nil {
		panic("nil store passed to NewSeriesHandler")
	}
	return &SeriesHandler{Series: series, Tags: tags, Characters: chars, Events: events}
}

// ----- DTOs -----

// seriesReq binds create and update payloads. Pointer fields distinguish
// "absent" from zero values, which PATCH semantics depend on.
type seriesReq struct {
	Title      *string    `json:"title"`
	StartDate  *time.Time `json:"start_date"`
	Status     *bool      `json:"status"`
	WatchRate  *int       `json:"watch_rate"`
	Rating     *float64   `json:"rating"`
	Link       *string    `json:"link"`
	Tags       *[]uint64  `json:"tags"`
	Characters *[]uint64  `json:"characters"`
}

// seriesResp is the list/create/update representation: tag and character
// associations as bare id arrays.
type seriesResp struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	StartDate  time.Time `json:"start_date"`
	Status     bool      `json:"status"`
	WatchRate  int       `json:"watch_rate"`
	Rating     float64   `json:"rating"`
	Link       string    `json:"link"`
	Tags       []uint64  `json:"tags"`
	Characters []uint64  `json:"characters"`
}

// seriesDetailResp is the detail representation: associations expanded
// into id+name objects.
type seriesDetailResp struct {
	ID         uint64     `json:"id"`
	Title      string     `json:"title"`
	StartDate  time.Time  `json:"start_date"`
	Status     bool       `json:"status"`
	WatchRate  int        `json:"watch_rate"`
	Rating     float64    `json:"rating"`
	Link       string     `json:"link"`
	Tags       []nameResp `json:"tags"`
	Characters []nameResp `json:"characters"`
}

func toSeriesResp(s *model.Series) seriesResp {
	resp := seriesResp{
		ID:         s.ID,
		Title:      s.Title,
		StartDate:  s.StartDate,
		Status:     s.Status,
		WatchRate:  s.WatchRate,
		Rating:     s.Rating,
		Link:       s.Link,
		Tags:       s.TagIDs,
		Characters: s.CharacterIDs,
	}
	// Empty sets serialize as [] rather than null.
	if resp.Tags == nil {
		resp.Tags = []uint64{}
	}
	if resp.Characters == nil {
		resp.Characters = []uint64{}
	}
	return resp
}

// ----- validation -----

// validWatchRate bounds the watch rate to 1..5.
func validWatchRate(n int) bool { return n >= 1 && n <= 5 }

// validRating accepts decimals within DECIMAL(4,2): 0.00 to 99.99 with at
// most two fractional digits.
func validRating(r float64) bool {
	if r < 0 || r > 99.99 {
		return false
	}
	cents := r * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// checkOwnedIDs verifies that every id in the deduplicated set belongs to
// the owner, using the store's count query.
func checkOwnedIDs(ctx context.Context, count func(context.Context, uint64, []uint64) (int, error),
	ownerID uint64, ids []uint64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	n, err := count(ctx, ownerID, ids)
	if err != nil {
		return false, err
	}
	return n == len(ids), nil
}

// ----- handlers -----

// List handles GET /v1/series: the caller's series, most recent first.
func (h *SeriesHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Series.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]seriesResp, 0, len(items))
	for _, s := range items {
		out = append(out, toSeriesResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/series.
func (h *SeriesHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req seriesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	s, errMsg := h.buildSeries(c.Request().Context(), ownerID, req)
	if errMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errMsg})
	}

	if err := h.Series.Create(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create series"})
	}
	h.publish(c.Request().Context(), queue.ActionCreated, s)
	return c.JSON(http.StatusCreated, toSeriesResp(s))
}

// Get handles GET /v1/series/:id with the nested detail representation.
func (h *SeriesHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	s, err := h.Series.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if err == repository.ErrSeriesNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "series not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	tags, err := h.Series.TagsForSeries(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	chars, err := h.Series.CharactersForSeries(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	detail := seriesDetailResp{
		ID:         s.ID,
		Title:      s.Title,
		StartDate:  s.StartDate,
		Status:     s.Status,
		WatchRate:  s.WatchRate,
		Rating:     s.Rating,
		Link:       s.Link,
		Tags:       make([]nameResp, 0, len(tags)),
		Characters: make([]nameResp, 0, len(chars)),
	}
	for _, t := range tags {
		detail.Tags = append(detail.Tags, nameResp{ID: t.ID, Name: t.Name})
	}
	for _, ch := range chars {
		detail.Characters = append(detail.Characters, nameResp{ID: ch.ID, Name: ch.Name})
	}
	return c.JSON(http.StatusOK, detail)
}

// Patch handles PATCH /v1/series/:id: only supplied fields change.
// Supplying tags or characters replaces that whole set, not additively.
func (h *SeriesHandler) Patch(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req seriesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	s, err := h.Series.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if err == repository.ErrSeriesNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "series not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 255 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
		}
		s.Title = title
	}
	if req.StartDate != nil {
		s.StartDate = req.StartDate.UTC()
	}
	if req.Status != nil {
		s.Status = *req.Status
	}
	if req.WatchRate != nil {
		if !validWatchRate(*req.WatchRate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "watch_rate must be between 1 and 5"})
		}
		s.WatchRate = *req.WatchRate
	}
	if req.Rating != nil {
		if !validRating(*req.Rating) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 0-99.99 with at most 2 decimals"})
		}
		s.Rating = *req.Rating
	}
	if req.Link != nil {
		if len(*req.Link) > 255 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "link too long"})
		}
		s.Link = *req.Link
	}

	replaceTags := req.Tags != nil
	if replaceTags {
		ids := dedupIDs(*req.Tags)
		ok, err := checkOwnedIDs(ctx, h.Tags.CountOwned, ownerID, ids)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tags contains an unknown id"})
		}
		s.TagIDs = ids
	}
	replaceChars := req.Characters != nil
	if replaceChars {
		ids := dedupIDs(*req.Characters)
		ok, err := checkOwnedIDs(ctx, h.Characters.CountOwned, ownerID, ids)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "characters contains an unknown id"})
		}
		s.CharacterIDs = ids
	}

	if err := h.Series.Update(ctx, s, replaceTags, replaceChars); err != nil {
		if err == repository.ErrSeriesNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "series not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.publish(ctx, queue.ActionUpdated, s)
	return c.JSON(http.StatusOK, toSeriesResp(s))
}

// Put handles PUT /v1/series/:id: full replacement. Required scalars must
// be present; omitted optional scalars reset to their defaults and
// omitted m2m arrays clear the corresponding set.
func (h *SeriesHandler) Put(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req seriesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	s, errMsg := h.buildSeries(ctx, ownerID, req)
	if errMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errMsg})
	}
	s.ID = id

	if err := h.Series.Update(ctx, s, true, true); err != nil {
		if err == repository.ErrSeriesNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "series not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.publish(ctx, queue.ActionUpdated, s)
	return c.JSON(http.StatusOK, toSeriesResp(s))
}

// Delete handles DELETE /v1/series/:id.
func (h *SeriesHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	// Load before deleting so the activity event can carry the title.
	s, err := h.Series.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if err == repository.ErrSeriesNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "series not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Series.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == repository.ErrSeriesNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "series not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.publish(ctx, queue.ActionDeleted, s)
	return c.NoContent(http.StatusNoContent)
}

// buildSeries assembles a full series record from a payload, applying
// defaults for optional fields and validating everything. It is shared by
// Create and Put, which both require the full scalar set. A non-empty
// return string is the client-facing validation error.
func (h *SeriesHandler) buildSeries(ctx context.Context, ownerID uint64, req seriesReq) (*model.Series, string) {
	if req.Title == nil {
		return nil, "title is required"
	}
	title := strings.TrimSpace(*req.Title)
	if title == "" || len(title) > 255 {
		return nil, "title is required"
	}
	if req.WatchRate == nil {
		return nil, "watch_rate is required"
	}
	if !validWatchRate(*req.WatchRate) {
		return nil, "watch_rate must be between 1 and 5"
	}
	if req.Rating == nil {
		return nil, "rating is required"
	}
	if !validRating(*req.Rating) {
		return nil, "rating must be 0-99.99 with at most 2 decimals"
	}

	s := &model.Series{
		UserID:    ownerID,
		Title:     title,
		StartDate: time.Now().UTC().Truncate(time.Second),
		WatchRate: *req.WatchRate,
		Rating:    *req.Rating,
	}
	if req.StartDate != nil {
		s.StartDate = req.StartDate.UTC()
	}
	if req.Status != nil {
		s.Status = *req.Status
	}
	if req.Link != nil {
		if len(*req.Link) > 255 {
			return nil, "link too long"
		}
		s.Link = *req.Link
	}

	if req.Tags != nil {
		ids := dedupIDs(*req.Tags)
		ok, err := checkOwnedIDs(ctx, h.Tags.CountOwned, ownerID, ids)
		if err != nil {
			return nil, "could not verify tags"
		}
		if !ok {
			return nil, "tags contains an unknown id"
		}
		s.TagIDs = ids
	}
	if req.Characters != nil {
		ids := dedupIDs(*req.Characters)
		ok, err := checkOwnedIDs(ctx, h.Characters.CountOwned, ownerID, ids)
		if err != nil {
			return nil, "could not verify characters"
		}
		if !ok {
			return nil, "characters contains an unknown id"
		}
		s.CharacterIDs = ids
	}
	return s, ""
}

// publish emits a best-effort activity event; failures never affect the
// HTTP response.
func (h *SeriesHandler) publish(ctx context.Context, action string, s *model.Series) {
	if h.Events == nil {
		return
	}
	_ = h.Events.PublishSeriesActivity(ctx, queue.SeriesActivityEvent{
		Action:     action,
		SeriesID:   s.ID,
		UserID:     s.UserID,
		Title:      s.Title,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
