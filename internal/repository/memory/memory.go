// Package memory provides process-local repositories for development runs
// without Postgres and for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/repository"
)

func uniqueViolation(column, value string) error {
	return &pgconn.PgError{
		Code:    "23505",
		Message: "duplicate key value violates unique constraint",
		Detail:  fmt.Sprintf("Key (%s)=(%s) already exists.", column, value),
	}
}

// UserRepository is a map-backed repository.UserRepository.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
}

// NewUserRepository returns an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]domain.User)}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return uniqueViolation("email", user.Email)
		}
		if existing.Username == user.Username {
			return uniqueViolation("username", user.Username)
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *UserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if match(user) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// ProductRepository is a map-backed repository.ProductRepository.
type ProductRepository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]domain.Product
}

// NewProductRepository returns an empty repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[int64]domain.Product)}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &product, nil
}

func (r *ProductRepository) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(filter.Name)
	products := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if needle != "" && !strings.Contains(strings.ToLower(product.Name), needle) {
			continue
		}
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	if filter.Offset >= len(products) {
		return []domain.Product{}, nil
	}
	products = products[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(products) {
		products = products[:filter.Limit]
	}
	return products, nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}
