package utils

import (
	"net/url"
	"strconv"
	"strings"

	"maintenance-system/pkg/types"
)

const defaultLimit = 20
const maxLimit = 200

// ParseFilterFromQuery разбирает query-параметры вида
// ?search=...&filter[status]=NEW&limit=10&offset=0&withPagination=true
func ParseFilterFromQuery(values url.Values) types.Filter {
	filter := types.Filter{
		Search:         values.Get("search"),
		Filter:         make(map[string]interface{}),
		Limit:          defaultLimit,
		WithPagination: true,
	}

	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		if limit > maxLimit {
			limit = maxLimit
		}
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(values.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	if withPg := values.Get("withPagination"); withPg != "" {
		filter.WithPagination = withPg == "true" || withPg == "1"
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[len("filter[") : len(key)-1]
			filter.Filter[field] = vals[0]
		}
	}

	if filter.Limit > 0 {
		filter.Page = filter.Offset/filter.Limit + 1
	}
	return filter
}
