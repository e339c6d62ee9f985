// Package memory holds map-backed repositories with the same visibility and
// ownership rules as the postgres implementation. The service and router tests
// run against it.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/campuskart/internal/domain/entity"
	"github.com/oksasatya/campuskart/internal/domain/repository"
)

// Store is shared by UserRepository and ItemRepository so item queries can join sellers.
type Store struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
	items map[int64]*entity.Item
	nextU int64
	nextI int64
	clock func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[int64]*entity.User),
		items: make(map[int64]*entity.Item),
		clock: time.Now,
	}
}

// SetClock overrides the creation timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.clock = now
	s.mu.Unlock()
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Items() *ItemRepository { return &ItemRepository{s: s} }

type UserRepository struct{ s *Store }

var _ repository.UserRepository = (*UserRepository)(nil)

func copyUser(u *entity.User) *entity.User {
	c := *u
	if u.TokenExpiresAt != nil {
		t := *u.TokenExpiresAt
		c.TokenExpiresAt = &t
	}
	return &c
}

func (r *UserRepository) CreateWithVerification(_ context.Context, u *entity.User, token string, expires time.Time) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}
	s.nextU++
	u.ID = s.nextU
	u.CreatedAt = s.clock()
	u.VerificationToken = token
	u.TokenExpiresAt = &expires
	s.users[u.ID] = copyUser(u)
	return u.ID, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) MarkVerified(_ context.Context, token string, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if token != "" && u.VerificationToken == token && u.TokenExpiresAt != nil && u.TokenExpiresAt.After(now) {
			u.IsVerified = true
			u.VerificationToken = ""
			u.TokenExpiresAt = nil
			return u.ID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (r *UserRepository) SetVerificationToken(_ context.Context, userID int64, token string, expires time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.VerificationToken = token
	u.TokenExpiresAt = &expires
	return nil
}

func (r *UserRepository) ClearExpiredVerificationTokens(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.TokenExpiresAt != nil && !u.TokenExpiresAt.After(now) {
			u.VerificationToken = ""
			u.TokenExpiresAt = nil
			n++
		}
	}
	return n, nil
}

// SetPhone records a contact number, which registration never collects.
func (r *UserRepository) SetPhone(userID int64, phone string) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		u.PhoneNumber = phone
	}
}

// Token exposes the pending verification token of a user.
func (r *UserRepository) Token(userID int64) string {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[userID]; ok {
		return u.VerificationToken
	}
	return ""
}

type ItemRepository struct{ s *Store }

var _ repository.ItemRepository = (*ItemRepository)(nil)

func (r *ItemRepository) Create(_ context.Context, it *entity.Item) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[it.SellerID]; !ok {
		return 0, repository.ErrNotFound
	}
	s.nextI++
	it.ID = s.nextI
	if it.Status == "" {
		it.Status = entity.ItemActive
	}
	it.CreatedAt = s.clock()
	c := *it
	s.items[it.ID] = &c
	return it.ID, nil
}

func (r *ItemRepository) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *it
	return &c, nil
}

func (r *ItemRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	it, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return it.SellerID, nil
}

func matches(it *entity.Item, f entity.ItemFilter) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(it.Title), term) && !strings.Contains(strings.ToLower(it.Description), term) {
			return false
		}
	}
	if cat := strings.TrimSpace(f.Category); cat != "" && it.Category != cat {
		return false
	}
	return true
}

func newestFirst[T any](xs []T, at func(T) time.Time, id func(T) int64) {
	sort.Slice(xs, func(i, j int) bool {
		a, b := at(xs[i]), at(xs[j])
		if a.Equal(b) {
			return id(xs[i]) > id(xs[j])
		}
		return a.After(b)
	})
}

func (r *ItemRepository) ListActive(_ context.Context, f entity.ItemFilter) ([]entity.ListingSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.ListingSummary{}
	for _, it := range r.s.items {
		if !it.Visible() || !matches(it, f) {
			continue
		}
		out = append(out, entity.ListingSummary{
			ID:         it.ID,
			Title:      it.Title,
			Price:      it.Price,
			Category:   it.Category,
			ImageURL:   it.ImageURL,
			SellerName: r.s.users[it.SellerID].DisplayName(),
			CreatedAt:  it.CreatedAt,
		})
	}
	newestFirst(out, func(l entity.ListingSummary) time.Time { return l.CreatedAt }, func(l entity.ListingSummary) int64 { return l.ID })
	return out, nil
}

func (r *ItemRepository) GetVisibleDetail(_ context.Context, id int64) (*entity.ItemDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok || !it.Visible() {
		return nil, repository.ErrNotFound
	}
	seller := r.s.users[it.SellerID]
	return &entity.ItemDetail{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Price:       it.Price,
		Category:    it.Category,
		Quantity:    it.Quantity,
		ImageURL:    it.ImageURL,
		CreatedAt:   it.CreatedAt,
		SellerName:  seller.FirstName,
		SellerEmail: seller.Email,
		SellerPhone: seller.PhoneNumber,
	}, nil
}

func (r *ItemRepository) ListBySeller(_ context.Context, sellerID int64) ([]entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Item{}
	for _, it := range r.s.items {
		if it.SellerID == sellerID {
			out = append(out, *it)
		}
	}
	newestFirst(out, func(i entity.Item) time.Time { return i.CreatedAt }, func(i entity.Item) int64 { return i.ID })
	return out, nil
}

func (r *ItemRepository) Update(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[it.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c := *it
	c.SellerID = cur.SellerID
	c.CreatedAt = cur.CreatedAt
	r.s.items[it.ID] = &c
	return nil
}

func (r *ItemRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}
