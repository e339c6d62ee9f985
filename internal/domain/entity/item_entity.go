package entity

import "time"

type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemInactive ItemStatus = "inactive"
	ItemSold     ItemStatus = "sold"
)

// Valid reports whether s is one of the known listing states.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemActive, ItemInactive, ItemSold:
		return true
	}
	return false
}

// Item is a marketplace listing owned by a single seller.
type Item struct {
	ID          int64      `json:"item_id"`
	SellerID    int64      `json:"seller_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	ImageURL    string     `json:"image_url"`
	Status      ItemStatus `json:"listing_status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Visible reports whether the item may appear in public listings.
func (i *Item) Visible() bool {
	return i.Status == ItemActive && i.Quantity > 0
}

// ListingSummary is the flattened row returned by public browsing.
type ListingSummary struct {
	ID         int64     `json:"item_id"`
	Title      string    `json:"title"`
	Price      float64   `json:"price"`
	Category   string    `json:"category"`
	ImageURL   string    `json:"image_url"`
	SellerName string    `json:"seller_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemDetail is the single-item view, including seller contact details.
type ItemDetail struct {
	ID          int64     `json:"item_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	SellerName  string    `json:"seller_name"`
	SellerEmail string    `json:"seller_email"`
	SellerPhone string    `json:"seller_phone,omitempty"`
}

// ItemFilter narrows public listings. Empty fields are ignored.
type ItemFilter struct {
	Search   string
	Category string
}
