package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRollDice(t *testing.T) {
	e := echo.New()
	e.POST("/v1/dice/roll", RollDice)

	rec := postJSON(e, "/v1/dice/roll", `{"expression":"2d6+3"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var roll struct {
		Expression string `json:"expression"`
		Results    []int  `json:"results"`
		Total      int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roll))
	assert.Equal(t, "2d6+3", roll.Expression)
	assert.Len(t, roll.Results, 2)
	assert.GreaterOrEqual(t, roll.Total, 5)
	assert.LessOrEqual(t, roll.Total, 15)
}

func TestRollDiceRejectsBadExpression(t *testing.T) {
	e := echo.New()
	e.POST("/v1/dice/roll", RollDice)

	for _, body := range []string{`{"expression":"banana"}`, `{"expression":""}`, `{}`, `not json`} {
		rec := postJSON(e, "/v1/dice/roll", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR", body)
	}
}
