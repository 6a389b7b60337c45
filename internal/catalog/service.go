package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/davemtz/storefront-api/pkg/db"
	"github.com/davemtz/storefront-api/pkg/db/models"
	pkgerrors "github.com/davemtz/storefront-api/pkg/errors"
	"github.com/davemtz/storefront-api/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notFoundMessage = "Product not found by ID"

// Service implements the catalog operations.
type Service struct {
	client *db.Client
	repo   *Repository
	log    *logger.Logger
}

func NewService(client *db.Client, repo *Repository, log *logger.Logger) *Service {
	return &Service{client: client, repo: repo, log: log}
}

// CreateProductInput carries the validated create payload. Stock is optional
// and defaults to zero.
type CreateProductInput struct {
	Name        string
	PriceCents  int64
	Description *string
	Stock       *int
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	PriceCents  *int64
	Description *string
	Stock       *int
}

func (s *Service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	product := &models.Product{
		Name:        input.Name,
		PriceCents:  input.PriceCents,
		Description: input.Description,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.log.Error(ctx, "creating product", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create product")
	}

	dto := NewProductDTO(created)
	return &dto, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}

	dto := NewProductDTO(product)
	return &dto, nil
}

func (s *Service) List(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error(ctx, "listing products", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}
	return NewProductDTOs(products), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	updated, err := s.repo.Save(ctx, product)
	if err != nil {
		s.log.Error(ctx, "updating product", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
	}

	dto := NewProductDTO(updated)
	return &dto, nil
}

// Delete removes the product and its cart items in one transaction. The
// explicit cart-item delete keeps behavior identical on stores that do not
// enforce the foreign key cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.lookupError(ctx, err)
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteCartItems(ctx, id); err != nil {
			return fmt.Errorf("deleting cart items for product %s: %w", id, err)
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting product %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "deleting product", err)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete product")
	}

	return nil
}

func (s *Service) lookupError(ctx context.Context, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	s.log.Error(ctx, "loading product", err)
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
}
