package postgres

import (
	"strconv"
	"strings"

	"github.com/oksasatya/campuskart/internal/domain/entity"
)

const listingBase = `
		SELECT i.item_id, i.title, i.price::float8, i.category, COALESCE(i.image_url, ''),
			u.first_name AS seller_name, i.created_at
		FROM items AS i
		JOIN users AS u ON i.seller_id = u.user_id`

// likeEscaper makes LIKE metacharacters in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListingQuery assembles the public listing query. Visibility is always enforced.
func buildListingQuery(f entity.ItemFilter) (string, []any) {
	where := []string{"i.listing_status = 'active'", "i.quantity > 0"}
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		p := next("%" + likeEscaper.Replace(term) + "%")
		where = append(where, "(i.title ILIKE "+p+" OR i.description ILIKE "+p+")")
	}
	if cat := strings.TrimSpace(f.Category); cat != "" {
		where = append(where, "i.category = "+next(cat))
	}

	var b strings.Builder
	b.WriteString(listingBase)
	b.WriteString("\n\t\tWHERE ")
	b.WriteString(strings.Join(where, " AND "))
	b.WriteString("\n\t\tORDER BY i.created_at DESC")
	return b.String(), args
}
