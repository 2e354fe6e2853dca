package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filtersForQuery(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/reports"+query, nil)
	return c
}

func TestParseReportFilters(t *testing.T) {
	c := filtersForQuery(t, "?date_from=2026-08-01&date_to=2026-08-31&website_id=w1&search=login&limit=10&offset=20")

	filters := parseReportFilters(c)

	require.NotNil(t, filters.DateFrom)
	assert.Equal(t, "2026-08-01", filters.DateFrom.Format("2006-01-02"))
	require.NotNil(t, filters.DateTo)
	assert.Equal(t, "2026-08-31", filters.DateTo.Format("2006-01-02"))
	require.NotNil(t, filters.WebsiteID)
	assert.Equal(t, "w1", *filters.WebsiteID)
	assert.Nil(t, filters.StatusID)
	require.NotNil(t, filters.Search)
	assert.Equal(t, "login", *filters.Search)
	assert.Equal(t, 10, filters.Limit)
	assert.Equal(t, 20, filters.Offset)
}

func TestParseReportFiltersDefaults(t *testing.T) {
	c := filtersForQuery(t, "")

	filters := parseReportFilters(c)

	assert.Nil(t, filters.DateFrom)
	assert.Nil(t, filters.DateTo)
	assert.Nil(t, filters.WebsiteID)
	assert.Nil(t, filters.StatusID)
	assert.Nil(t, filters.Search)
	assert.Equal(t, 50, filters.Limit)
	assert.Equal(t, 0, filters.Offset)
}

func TestParseReportFiltersBadDate(t *testing.T) {
	c := filtersForQuery(t, "?date_from=not-a-date")

	filters := parseReportFilters(c)
	assert.Nil(t, filters.DateFrom)
}
