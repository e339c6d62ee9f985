package postgres

import (
	"context"

	"github.com/oksasatya/campuskart/internal/domain/entity"
	"github.com/oksasatya/campuskart/internal/domain/repository"
)

const itemColumns = `item_id, seller_id, title, description, price::float8, category, quantity,
		COALESCE(image_url, ''), listing_status, created_at`

type ItemRepository struct {
	db *Gateway
}

func NewItemRepository(db *Gateway) *ItemRepository {
	return &ItemRepository{db: db}
}

func scanItem(row interface{ Scan(dest ...any) error }) (*entity.Item, error) {
	it := &entity.Item{}
	var status string
	if err := row.Scan(&it.ID, &it.SellerID, &it.Title, &it.Description, &it.Price, &it.Category,
		&it.Quantity, &it.ImageURL, &status, &it.CreatedAt); err != nil {
		return nil, err
	}
	it.Status = entity.ItemStatus(status)
	return it, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *ItemRepository) Create(ctx context.Context, it *entity.Item) (int64, error) {
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		return q.QueryRow(ctx, `
			INSERT INTO items (seller_id, title, description, price, category, quantity, image_url, listing_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING item_id, created_at
		`, it.SellerID, it.Title, it.Description, it.Price, it.Category, it.Quantity,
			nullable(it.ImageURL), string(it.Status)).Scan(&it.ID, &it.CreatedAt)
	})
	if err != nil {
		return 0, translate(err)
	}
	return it.ID, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	var it *entity.Item
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		var err error
		it, err = scanItem(q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = $1`, id))
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return it, nil
}

func (r *ItemRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	var owner int64
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		return q.QueryRow(ctx, `SELECT seller_id FROM items WHERE item_id = $1`, id).Scan(&owner)
	})
	if err != nil {
		return 0, translate(err)
	}
	return owner, nil
}

func (r *ItemRepository) ListActive(ctx context.Context, f entity.ItemFilter) ([]entity.ListingSummary, error) {
	sql, args := buildListingQuery(f)
	out := make([]entity.ListingSummary, 0)
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s entity.ListingSummary
			if err := rows.Scan(&s.ID, &s.Title, &s.Price, &s.Category, &s.ImageURL, &s.SellerName, &s.CreatedAt); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ItemRepository) GetVisibleDetail(ctx context.Context, id int64) (*entity.ItemDetail, error) {
	d := &entity.ItemDetail{}
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		return q.QueryRow(ctx, `
			SELECT i.item_id, i.title, i.description, i.price::float8, i.category, i.quantity,
				COALESCE(i.image_url, ''), i.created_at,
				u.first_name, u.usiu_email, COALESCE(u.phone_number, '')
			FROM items AS i
			JOIN users AS u ON i.seller_id = u.user_id
			WHERE i.item_id = $1 AND i.listing_status = 'active' AND i.quantity > 0
		`, id).Scan(&d.ID, &d.Title, &d.Description, &d.Price, &d.Category, &d.Quantity,
			&d.ImageURL, &d.CreatedAt, &d.SellerName, &d.SellerEmail, &d.SellerPhone)
	})
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID int64) ([]entity.Item, error) {
	out := make([]entity.Item, 0)
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		rows, err := q.Query(ctx, `
			SELECT `+itemColumns+`
			FROM items
			WHERE seller_id = $1
			ORDER BY created_at DESC
		`, sellerID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			it, err := scanItem(rows)
			if err != nil {
				return err
			}
			out = append(out, *it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ItemRepository) Update(ctx context.Context, it *entity.Item) error {
	return r.db.Run(ctx, func(ctx context.Context, q DB) error {
		res, err := q.Exec(ctx, `
			UPDATE items
			SET title = $1, description = $2, price = $3, category = $4, quantity = $5,
				image_url = $6, listing_status = $7
			WHERE item_id = $8
		`, it.Title, it.Description, it.Price, it.Category, it.Quantity,
			nullable(it.ImageURL), string(it.Status), it.ID)
		if err != nil {
			return translate(err)
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Run(ctx, func(ctx context.Context, q DB) error {
		res, err := q.Exec(ctx, `DELETE FROM items WHERE item_id = $1`, id)
		if err != nil {
			return translate(err)
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

var _ repository.ItemRepository = (*ItemRepository)(nil)
