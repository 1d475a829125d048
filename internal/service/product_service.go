package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/cache"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ProductInput holds a full product definition.
type ProductInput struct {
	Name     string
	Quantity int
	Price    float64
}

// ProductService manages the catalog.
type ProductService struct {
	products   repository.ProductRepository
	cache      *cache.ProductCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProductDependencies encapsulates collaborators for product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Cache       *cache.ProductCache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewProductService builds the service. Cache and dispatcher are optional.
func NewProductService(deps ProductDependencies) *ProductService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:   deps.ProductRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

func productNotFound(id int64) error {
	return apperrors.NewNotFound(fmt.Sprintf("Product with id %d not found", id))
}

// CreateProduct stores a new product on behalf of actorID.
func (s *ProductService) CreateProduct(ctx context.Context, actorID int64, in ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:     strings.TrimSpace(in.Name),
		Quantity: in.Quantity,
		Price:    in.Price,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventProductCreated, actorID, product.ID,
		events.ProductChangedPayload{Product: *product}))
	return product, nil
}

// GetProduct reads through the cache.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if cached, ok, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warn("product cache read failed", zap.Int64("product_id", id), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, productNotFound(id)
		}
		return nil, apperrors.NewStorageError(err)
	}
	if err := s.cache.Set(ctx, *product); err != nil {
		s.logger.Warn("product cache write failed", zap.Int64("product_id", id), zap.Error(err))
	}
	return product, nil
}

// ListProducts pages through products, optionally filtered by a name fragment.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return products, nil
}

// ReplaceProduct overwrites every field of an existing product.
func (s *ProductService) ReplaceProduct(ctx context.Context, actorID, id int64, in ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Quantity: in.Quantity,
		Price:    in.Price,
	}
	return s.save(ctx, actorID, product)
}

// PatchProduct changes only the fields present in patch.
func (s *ProductService) PatchProduct(ctx context.Context, actorID, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("at least one of product_name, quantity, price is required", nil)
	}
	current, err := s.products.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, productNotFound(id)
		}
		return nil, apperrors.NewStorageError(err)
	}
	updated := patch.Apply(*current)
	updated.Name = strings.TrimSpace(updated.Name)
	return s.save(ctx, actorID, &updated)
}

func (s *ProductService) save(ctx context.Context, actorID int64, product *domain.Product) (*domain.Product, error) {
	if err := s.products.Update(ctx, product); err != nil {
		if apperrors.IsNoRows(err) {
			return nil, productNotFound(product.ID)
		}
		return nil, apperrors.NewStorageError(err)
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventProductUpdated, actorID, product.ID,
		events.ProductChangedPayload{Product: *product}))
	return product, nil
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, actorID, id int64) error {
	affected, err := s.products.Delete(ctx, id)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if affected == 0 {
		return productNotFound(id)
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventProductDeleted, actorID, id, nil))
	return nil
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
