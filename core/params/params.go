package params

import (
	"strconv"

	"mediation-api/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
}

// NewQueryParams reads page and limit from the query string, falling back to
// defaults and clamping the page size.
func NewQueryParams(c echo.Context) *QueryParams {
	return Normalize(atoi(c.QueryParam("page")), atoi(c.QueryParam("limit")))
}

func Normalize(page, limit int) *QueryParams {
	if page < 1 {
		page = constants.DefaultPageNumber
	}
	if limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	return &QueryParams{PageNumber: page, PageSize: limit}
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
