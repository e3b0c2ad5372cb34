package api

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"evalgo.org/servium/models"
)

// parseListOptions builds a validated query specification from the raw
// pagination/sort/search parameters of a list request.
//
// Bounds are enforced here, before the storage executor is reached: page
// must be a positive integer and size an integer in [1,50]. An out-of-range
// size is rejected, never clamped. Sort and search field names pass through
// as opaque strings; the executor checks them against its column allow-list.
func parseListOptions(c echo.Context) (models.ListOptions, error) {
	opts := models.ListOptions{
		Page:        models.DefaultPage,
		Size:        models.DefaultPageSize,
		SortField:   models.DefaultSortField,
		Order:       models.SortAsc,
		SearchField: models.DefaultSortField,
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return opts, BadRequestError("Invalid page", "page must be a positive integer")
		}
		opts.Page = page
	}

	if raw := c.QueryParam("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > models.MaxPageSize {
			return opts, BadRequestError("Invalid size", "size must be an integer between 1 and 50")
		}
		opts.Size = size
	}

	if raw := c.QueryParam("order"); raw != "" {
		switch models.SortOrder(strings.ToUpper(raw)) {
		case models.SortAsc:
			opts.Order = models.SortAsc
		case models.SortDesc:
			opts.Order = models.SortDesc
		default:
			return opts, BadRequestError("Invalid order", "order must be ASC or DESC")
		}
	}

	if field := c.QueryParam("sort_field"); field != "" {
		opts.SortField = field
	}

	opts.Search = c.QueryParam("search")
	if field := c.QueryParam("search_field"); field != "" {
		opts.SearchField = field
	}

	return opts, nil
}
