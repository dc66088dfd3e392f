package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTagIDParam(c echo.Context, id uint64) {
	c.SetPath("/v1/tags/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(id, 10))
}

func TestTagCreateAndList(t *testing.T) {
	tags := newFakeTagStore()
	h := NewTagHandler(tags)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/tags", `{"name":"Sci-Fi"}`, 1)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created nameResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Sci-Fi", created.Name)

	c, rec = newJSONContext(t, http.MethodGet, "/v1/tags", "", 1)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []nameResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, created, out[0])
}

func TestTagCreate_Validation(t *testing.T) {
	h := NewTagHandler(newFakeTagStore())

	for name, body := range map[string]string{
		"empty name": `{"name":""}`,
		"whitespace": `{"name":"   "}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, "/v1/tags", body, 1)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTagList_Unauthorized(t *testing.T) {
	h := NewTagHandler(newFakeTagStore())
	c, rec := newJSONContext(t, http.MethodGet, "/v1/tags", "", 0)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTagGet_OtherUserNotFound(t *testing.T) {
	tags := newFakeTagStore()
	h := NewTagHandler(tags)
	foreign, _ := tags.Create(t.Context(), 2, "not yours")

	c, rec := newJSONContext(t, http.MethodGet, "/v1/tags/1", "", 1)
	withTagIDParam(c, foreign.ID)
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagUpdateAndDelete(t *testing.T) {
	tags := newFakeTagStore()
	h := NewTagHandler(tags)
	tag, _ := tags.Create(t.Context(), 1, "old name")

	c, rec := newJSONContext(t, http.MethodPut, "/v1/tags/1", `{"name":"new name"}`, 1)
	withTagIDParam(c, tag.ID)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new name", tags.tags[tag.ID].Name)

	c, rec = newJSONContext(t, http.MethodDelete, "/v1/tags/1", "", 1)
	withTagIDParam(c, tag.ID)
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, tags.tags)
}

func TestCharacterCRUD(t *testing.T) {
	chars := newFakeCharacterStore()
	h := NewCharacterHandler(chars)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/characters", `{"name":"Berlin"}`, 1)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created nameResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Berlin", created.Name)

	c, rec = newJSONContext(t, http.MethodGet, "/v1/characters/1", "", 1)
	c.SetPath("/v1/characters/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(created.ID, 10))
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Another user cannot see it.
	c, rec = newJSONContext(t, http.MethodGet, "/v1/characters/1", "", 2)
	c.SetPath("/v1/characters/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(created.ID, 10))
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
