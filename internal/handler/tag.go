package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Akshaychdev/RESTapi-app-series/internal/repository"
)

// TagHandler serves the /v1/tags resource. Every operation is scoped to
// the authenticated user; records owned by other users surface as 404.
type TagHandler struct {
	Tags TagStore
}

func NewTagHandler(tags TagStore) *TagHandler {
	return &TagHandler{Tags: tags}
}

type nameReq struct {
	Name string `json:"name"`
}

// nameResp is the wire form of tags and characters: the server-assigned
// id plus the user-supplied name.
type nameResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// bindName extracts and validates the name payload shared by tag and
// character endpoints.
func bindName(c echo.Context) (string, bool) {
	var body nameReq
	if err := c.Bind(&body); err != nil {
		return "", false
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || len(name) > 255 {
		return "", false
	}
	return name, true
}

// List handles GET /v1/tags.
func (h *TagHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Tags.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]nameResp, 0, len(items))
	for _, t := range items {
		out = append(out, nameResp{ID: t.ID, Name: t.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/tags.
func (h *TagHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	name, ok := bindName(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	t, err := h.Tags.Create(c.Request().Context(), ownerID, name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create tag"})
	}
	return c.JSON(http.StatusCreated, nameResp{ID: t.ID, Name: t.Name})
}

// Get handles GET /v1/tags/:id.
func (h *TagHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Tags.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrTagNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, nameResp{ID: t.ID, Name: t.Name})
}

// Update handles PUT/PATCH /v1/tags/:id. A tag only carries a name, so
// partial and full update coincide.
func (h *TagHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	name, ok := bindName(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.Tags.UpdateName(c.Request().Context(), id, ownerID, name); err != nil {
		if err == repository.ErrTagNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, nameResp{ID: id, Name: name})
}

// Delete handles DELETE /v1/tags/:id.
func (h *TagHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tags.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		if err == repository.ErrTagNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
