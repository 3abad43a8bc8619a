package handlers

import (
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type listQueryParams struct {
	Limit   int
	Offset  int
	Search  string
	Pattern string
}

func parseListQueryParams(rawLimit, rawOffset, rawSearch string) listQueryParams {
	limit := defaultPageLimit
	if parsedLimit, err := strconv.Atoi(strings.TrimSpace(rawLimit)); err == nil && parsedLimit > 0 {
		limit = parsedLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset := 0
	if parsedOffset, err := strconv.Atoi(strings.TrimSpace(rawOffset)); err == nil && parsedOffset >= 0 {
		offset = parsedOffset
	}

	search := strings.TrimSpace(rawSearch)
	pattern := ""
	if search != "" {
		pattern = "%" + strings.ToLower(search) + "%"
	}

	return listQueryParams{
		Limit:   limit,
		Offset:  offset,
		Search:  search,
		Pattern: pattern,
	}
}
