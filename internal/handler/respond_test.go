package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefacto/heritage-api/internal/middleware"
)

func newTestCtx(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondEnvelope(t *testing.T) {
	c, rec := newTestCtx(t)
	require.NoError(t, respond(c, http.StatusCreated, "created", echo.Map{"id": 7}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, float64(7), body["data"].(map[string]interface{})["id"])
	assert.NotContains(t, body, "errors")
}

func TestRespondErrorEnvelope(t *testing.T) {
	c, rec := newTestCtx(t)
	require.NoError(t, respondError(c, http.StatusNotFound, "temple not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "temple not found", body["message"])
	assert.NotContains(t, body, "data")
}

func TestRespondValidationEnvelope(t *testing.T) {
	c, rec := newTestCtx(t)
	errs := []fieldError{{Field: "email", Message: "required"}}
	require.NoError(t, respondValidation(c, errs))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Status string       `json:"status"`
		Errors []fieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestCtx(t)
	_, err := getUserID(c)
	assert.Error(t, err, "no user id set")

	c.Set(middleware.ContextUserID, uint64(12))
	uid, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), uid)
}

func TestPathID(t *testing.T) {
	c, _ := newTestCtx(t)
	c.SetParamNames("id")

	for param, wantErr := range map[string]bool{"5": false, "0": true, "-1": true, "abc": true, "": true} {
		c.SetParamValues(param)
		id, err := pathID(c)
		if wantErr {
			assert.Error(t, err, "param %q", param)
		} else {
			require.NoError(t, err)
			assert.Equal(t, uint64(5), id)
		}
	}
}
