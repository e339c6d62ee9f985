package repository

import (
	"context"

	"github.com/oksasatya/campuskart/internal/domain/entity"
)

// ItemRepository defines persistence for marketplace listings.
type ItemRepository interface {
	Create(ctx context.Context, it *entity.Item) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	ListActive(ctx context.Context, f entity.ItemFilter) ([]entity.ListingSummary, error)
	GetVisibleDetail(ctx context.Context, id int64) (*entity.ItemDetail, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]entity.Item, error)
	Update(ctx context.Context, it *entity.Item) error
	Delete(ctx context.Context, id int64) error
}
