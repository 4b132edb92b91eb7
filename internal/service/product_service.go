package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ameyabis/projet-7-api-rest/internal/cache"
	apperrors "github.com/ameyabis/projet-7-api-rest/internal/errors"
	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
	"github.com/ameyabis/projet-7-api-rest/internal/repository"
)

// ProductService exposes the read-only catalog. Both operations return
// serialized JSON documents; the list and single reads are cached under the
// productCache tag.
type ProductService interface {
	ListProducts(ctx context.Context, page, limit int) ([]byte, error)
	GetProduct(ctx context.Context, id uint) ([]byte, error)
}

type productService struct {
	repo       repository.ProductRepository
	cache      *cache.Tagged
	serializer *hateoas.Serializer
}

// NewProductService builds a ProductService with repository, cache and serializer.
func NewProductService(repo repository.ProductRepository, cache *cache.Tagged, serializer *hateoas.Serializer) ProductService {
	return &productService{repo: repo, cache: cache, serializer: serializer}
}

func (s *productService) ListProducts(ctx context.Context, page, limit int) ([]byte, error) {
	key := cache.ProductListKey(page, limit)
	return s.cache.GetOrCompute(ctx, key, []string{cache.TagProducts}, func(ctx context.Context) ([]byte, error) {
		products, err := s.repo.List(ctx, page, limit)
		if err != nil {
			return nil, err
		}
		return s.serializer.Serialize(products, "")
	})
}

func (s *productService) GetProduct(ctx context.Context, id uint) ([]byte, error) {
	key := cache.ProductKey(id)
	return s.cache.GetOrCompute(ctx, key, []string{cache.TagProducts}, func(ctx context.Context) ([]byte, error) {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrProductNotFound
			}
			return nil, err
		}
		return s.serializer.Serialize(product, "")
	})
}
