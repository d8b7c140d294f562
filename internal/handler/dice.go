package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/dice"
)

type diceReq struct {
	Expression string `json:"expression"`
}

// RollDice evaluates a dice expression like 2d6+3.
func RollDice(c echo.Context) error {
	var req diceReq
	if err := c.Bind(&req); err != nil || req.Expression == "" {
		return fail(c, apperr.Validation("expression required"))
	}
	roll, err := dice.RollExpression(req.Expression)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, roll)
}
