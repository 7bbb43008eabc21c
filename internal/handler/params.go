package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abengl/fleet-management-api/internal/service"
)

const (
	defaultPage  = 0
	defaultLimit = 10
)

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidParameter, name)
	}
	return n, nil
}

// pageParams reads page and limit with their defaults.
func pageParams(c echo.Context) (page, limit int, err error) {
	if page, err = queryInt(c, "page", defaultPage); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(c, "limit", defaultLimit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// optionalID parses an id that may be absent; absence yields nil so the
// service can report it.
func optionalID(raw, name string) (*uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a positive integer", service.ErrInvalidParameter, name)
	}
	return &id, nil
}
