package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("search=станок&limit=50&page=3&sort[created_at]=desc&filter[stage_id]=1&filter[technician_id]=me")
	assert.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "станок", filter.Search)
	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 100, filter.Offset, "offset вычисляется из страницы и лимита")
	assert.Equal(t, "desc", filter.Sort["created_at"])
	assert.Equal(t, "1", filter.Filter["stage_id"])
	assert.Equal(t, "me", filter.Filter["technician_id"])
}

func TestParseFilterFromQueryDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.True(t, filter.WithPagination)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterFromQueryClampsLimit(t *testing.T) {
	values, _ := url.ParseQuery("limit=100000")
	filter := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, filter.Limit)

	values, _ = url.ParseQuery("limit=-5&page=0")
	filter = ParseFilterFromQuery(values)
	assert.Equal(t, DefaultLimit, filter.Limit, "некорректный лимит заменяется значением по умолчанию")
	assert.Equal(t, 1, filter.Page)
}

func TestParseFilterFromQueryIgnoresBadSortDirection(t *testing.T) {
	values, _ := url.ParseQuery("sort[name]=sideways")
	filter := ParseFilterFromQuery(values)
	assert.Empty(t, filter.Sort)
}

func TestBuildPagination(t *testing.T) {
	pagination := BuildPagination(45, ParseFilterFromQuery(url.Values{}))
	assert.Equal(t, uint64(45), pagination.TotalCount)
	assert.Equal(t, 3, pagination.TotalPages, "45 записей по 20 на страницу — 3 страницы")

	pagination = BuildPagination(0, ParseFilterFromQuery(url.Values{}))
	assert.Equal(t, 0, pagination.TotalPages)
}
