// Package dice parses and rolls tabletop dice expressions of the form
// NdM, NdM+X, NdM-X (e.g. 1d20, 2d6+3, 4d8-2).
package dice

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/guildofheroes/goh-api/internal/apperr"
)

var exprRE = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Roll holds one evaluated expression.
type Roll struct {
	Expression string `json:"expression"`
	Results    []int  `json:"results"`
	Total      int    `json:"total"`
}

// Parse normalizes and validates an expression, returning dice count,
// die size and modifier.
func Parse(expression string) (count, size, modifier int, err error) {
	expr := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(expression), " ", ""))
	m := exprRE.FindStringSubmatch(expr)
	if m == nil {
		return 0, 0, 0, apperr.Validation(fmt.Sprintf("Invalid dice expression: %s", expression))
	}
	count, _ = strconv.Atoi(m[1])
	size, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		modifier, _ = strconv.Atoi(m[3])
	}
	if count < 1 || count > 100 {
		return 0, 0, 0, apperr.Validation("Number of dice must be 1-100")
	}
	if size < 2 || size > 100 {
		return 0, 0, 0, apperr.Validation("Die size must be 2-100")
	}
	return count, size, modifier, nil
}

// RollExpression parses and rolls, returning per-die results and the
// modified total.
func RollExpression(expression string) (Roll, error) {
	count, size, modifier, err := Parse(expression)
	if err != nil {
		return Roll{}, err
	}
	results := make([]int, count)
	total := modifier
	for i := range results {
		results[i] = rand.IntN(size) + 1
		total += results[i]
	}
	return Roll{Expression: expression, Results: results, Total: total}, nil
}
