package application

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/internal/domain/entity"
	repo "github.com/oksasatya/campuskart/internal/domain/repository"
)

// ImageStore persists listing photos and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, ownerID int64, filename, contentType string, r io.Reader) (string, error)
}

// ItemIndex mirrors listings into a full-text search backend.
type ItemIndex interface {
	Index(ctx context.Context, it entity.Item, sellerName string) error
	Remove(ctx context.Context, itemID int64) error
	Search(ctx context.Context, query string, size int) ([]entity.ListingSummary, error)
}

// ImageUpload is a photo attached to a create or update request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type ItemService struct {
	Items         repo.ItemRepository
	Users         repo.UserRepository
	Images        ImageStore
	Index         ItemIndex
	Logger        *logrus.Logger
	ImageRequired bool
}

func NewItemService(items repo.ItemRepository, users repo.UserRepository, images ImageStore, index ItemIndex, logger *logrus.Logger, imageRequired bool) *ItemService {
	return &ItemService{Items: items, Users: users, Images: images, Index: index, Logger: logger, ImageRequired: imageRequired}
}

type CreateItemInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Quantity    *int
	ImageURL    string
	Image       *ImageUpload
}

// UpdateItemInput carries a partial update; nil fields keep the stored value.
type UpdateItemInput struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Quantity    *int
	Status      *string
	ImageURL    *string
	Image       *ImageUpload
}

func (s *ItemService) Create(ctx context.Context, callerID int64, in CreateItemInput) (int64, error) {
	it := entity.Item{
		SellerID:    callerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Quantity:    1,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Status:      entity.ItemActive,
	}
	if it.Title == "" || it.Description == "" || it.Category == "" || it.Price <= 0 {
		return 0, Validation("please include all required fields")
	}
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return 0, Validation("quantity must be at least 1")
		}
		it.Quantity = *in.Quantity
	}
	if s.ImageRequired && in.Image == nil && it.ImageURL == "" {
		return 0, ErrImageRequired
	}
	if in.Image != nil {
		url, err := s.upload(ctx, callerID, in.Image)
		if err != nil {
			return 0, err
		}
		it.ImageURL = url
	}

	id, err := s.Items.Create(ctx, &it)
	if err != nil {
		return 0, dependency("create item", err)
	}
	it.ID = id
	s.reindex(ctx, it)
	return id, nil
}

func (s *ItemService) upload(ctx context.Context, ownerID int64, img *ImageUpload) (string, error) {
	if s.Images == nil {
		return "", Validation("image uploads are not enabled; provide image_url instead")
	}
	url, err := s.Images.Upload(ctx, ownerID, img.Filename, img.ContentType, img.Body)
	if err != nil {
		return "", dependency("upload image", err)
	}
	return url, nil
}

// ListActive returns public listings; sold-out and deactivated items never appear.
func (s *ItemService) ListActive(ctx context.Context, f entity.ItemFilter) ([]entity.ListingSummary, error) {
	out, err := s.Items.ListActive(ctx, f)
	if err != nil {
		return nil, dependency("list items", err)
	}
	return out, nil
}

// GetOne returns seller contact details only for visible listings.
func (s *ItemService) GetOne(ctx context.Context, itemID int64) (*entity.ItemDetail, error) {
	d, err := s.Items.GetVisibleDetail(ctx, itemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, dependency("get item", err)
	}
	return d, nil
}

func (s *ItemService) ListMine(ctx context.Context, callerID int64) ([]entity.Item, error) {
	out, err := s.Items.ListBySeller(ctx, callerID)
	if err != nil {
		return nil, dependency("list own items", err)
	}
	return out, nil
}

func (s *ItemService) Update(ctx context.Context, callerID, itemID int64, in UpdateItemInput) (*entity.Item, error) {
	it, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, dependency("load item", err)
	}
	if it.SellerID != callerID {
		return nil, ErrNotOwner
	}

	if in.Title != nil {
		if v := strings.TrimSpace(*in.Title); v != "" {
			it.Title = v
		}
	}
	if in.Description != nil {
		if v := strings.TrimSpace(*in.Description); v != "" {
			it.Description = v
		}
	}
	if in.Category != nil {
		if v := strings.TrimSpace(*in.Category); v != "" {
			it.Category = v
		}
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, Validation("price must be greater than 0")
		}
		it.Price = *in.Price
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, Validation("quantity cannot be negative")
		}
		it.Quantity = *in.Quantity
	}
	if in.Status != nil {
		st := entity.ItemStatus(strings.ToLower(strings.TrimSpace(*in.Status)))
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		it.Status = st
	}
	if in.ImageURL != nil {
		if v := strings.TrimSpace(*in.ImageURL); v != "" {
			it.ImageURL = v
		}
	}
	if in.Image != nil {
		url, err := s.upload(ctx, callerID, in.Image)
		if err != nil {
			return nil, err
		}
		it.ImageURL = url
	}

	if err := s.Items.Update(ctx, it); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, dependency("update item", err)
	}
	s.reindex(ctx, *it)
	return it, nil
}

func (s *ItemService) Delete(ctx context.Context, callerID, itemID int64) error {
	owner, err := s.Items.GetOwnerID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrItemNotFound
		}
		return dependency("load item", err)
	}
	if owner != callerID {
		return ErrNotOwner
	}
	if err := s.Items.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrItemNotFound
		}
		return dependency("delete item", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, itemID); err != nil {
			s.log().WithError(err).WithField("item_id", itemID).Warn("search index removal failed")
		}
	}
	return nil
}

const maxSearchSize = 50

// Search runs a full-text query over visible listings, falling back to SQL
// substring search when no index is configured.
func (s *ItemService) Search(ctx context.Context, query string, size int) ([]entity.ListingSummary, error) {
	switch {
	case size <= 0:
		size = 20
	case size > maxSearchSize:
		size = maxSearchSize
	}
	if s.Index == nil || strings.TrimSpace(query) == "" {
		out, err := s.ListActive(ctx, entity.ItemFilter{Search: query})
		if err != nil {
			return nil, err
		}
		if len(out) > size {
			out = out[:size]
		}
		return out, nil
	}
	out, err := s.Index.Search(ctx, query, size)
	if err != nil {
		return nil, dependency("search items", err)
	}
	return out, nil
}

// reindex mirrors the item into the search index; failures are logged only.
func (s *ItemService) reindex(ctx context.Context, it entity.Item) {
	if s.Index == nil {
		return
	}
	seller := ""
	if s.Users != nil {
		if u, err := s.Users.GetByID(ctx, it.SellerID); err == nil {
			seller = u.DisplayName()
		}
	}
	if err := s.Index.Index(ctx, it, seller); err != nil {
		s.log().WithError(err).WithField("item_id", it.ID).Warn("search index update failed")
	}
}

func (s *ItemService) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}
