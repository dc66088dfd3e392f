package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Akshaychdev/RESTapi-app-series/internal/repository"
)

// CharacterHandler serves the /v1/characters resource, mirroring the tag
// endpoints.
type CharacterHandler struct {
	Characters CharacterStore
}

func NewCharacterHandler(chars CharacterStore) *CharacterHandler {
	return &CharacterHandler{Characters: chars}
}

// List handles GET /v1/characters.
func (h *CharacterHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Characters.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]nameResp, 0, len(items))
	for _, ch := range items {
		out = append(out, nameResp{ID: ch.ID, Name: ch.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/characters.
func (h *CharacterHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	name, ok := bindName(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ch, err := h.Characters.Create(c.Request().Context(), ownerID, name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create character"})
	}
	return c.JSON(http.StatusCreated, nameResp{ID: ch.ID, Name: ch.Name})
}

// Get handles GET /v1/characters/:id.
func (h *CharacterHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ch, err := h.Characters.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrCharacterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "character not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, nameResp{ID: ch.ID, Name: ch.Name})
}

// Update handles PUT/PATCH /v1/characters/:id.
func (h *CharacterHandler) Update(c echo.Context) error {
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
	if err := h.Characters.UpdateName(c.Request().Context(), id, ownerID, name); err != nil {
		if err == repository.ErrCharacterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "character not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, nameResp{ID: id, Name: name})
}

// Delete handles DELETE /v1/characters/:id.
func (h *CharacterHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Characters.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		if err == repository.ErrCharacterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "character not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
