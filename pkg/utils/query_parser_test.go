package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("search=станок&limit=50&offset=100&filter[status]=NEW&filter[team_id]=10")
	assert.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "станок", filter.Search)
	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 100, filter.Offset)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, "NEW", filter.Filter["status"])
	assert.Equal(t, "10", filter.Filter["team_id"])
	assert.True(t, filter.WithPagination)
}

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, defaultLimit, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Equal(t, 1, filter.Page)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterFromQuery_LimitClamp(t *testing.T) {
	values, _ := url.ParseQuery("limit=100000&withPagination=false")

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, maxLimit, filter.Limit)
	assert.False(t, filter.WithPagination)
}
