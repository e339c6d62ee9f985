package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/campuskart/internal/domain/entity"
)

func TestBuildListingQuery_NoFilters(t *testing.T) {
	sql, args := buildListingQuery(entity.ItemFilter{})
	assert.Contains(t, sql, "WHERE i.listing_status = 'active' AND i.quantity > 0")
	assert.Contains(t, sql, "ORDER BY i.created_at DESC")
	assert.NotContains(t, sql, "ILIKE")
	assert.Empty(t, args)
}

func TestBuildListingQuery_SearchAndCategory(t *testing.T) {
	sql, args := buildListingQuery(entity.ItemFilter{Search: " bike ", Category: "Sports"})
	assert.Contains(t, sql, "i.listing_status = 'active' AND i.quantity > 0")
	assert.Contains(t, sql, "(i.title ILIKE $1 OR i.description ILIKE $1)")
	assert.Contains(t, sql, "i.category = $2")
	assert.Equal(t, []any{"%bike%", "Sports"}, args)
}

func TestBuildListingQuery_CategoryOnly(t *testing.T) {
	sql, args := buildListingQuery(entity.ItemFilter{Category: "Books"})
	assert.Contains(t, sql, "i.category = $1")
	assert.Equal(t, []any{"Books"}, args)
}

func TestBuildListingQuery_EscapesWildcards(t *testing.T) {
	_, args := buildListingQuery(entity.ItemFilter{Search: "50%_off"})
	assert.Equal(t, []any{`%50\%\_off%`}, args)
}
