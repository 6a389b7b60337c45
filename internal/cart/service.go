package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/davemtz/storefront-api/internal/catalog"
	"github.com/davemtz/storefront-api/pkg/db"
	"github.com/davemtz/storefront-api/pkg/db/models"
	pkgerrors "github.com/davemtz/storefront-api/pkg/errors"
	"github.com/davemtz/storefront-api/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	productNotFoundMessage  = "Product not found by ID"
	cartItemNotFoundMessage = "Cart item not found by ID"
)

// InsufficientStockDetails is attached to INSUFFICIENT_STOCK errors so clients
// can show how much is left.
type InsufficientStockDetails struct {
	Available int `json:"available"`
}

// Service implements the single global cart.
type Service struct {
	client   *db.Client
	items    *Repository
	products *catalog.Repository
	log      *logger.Logger
}

func NewService(client *db.Client, items *Repository, products *catalog.Repository, log *logger.Logger) *Service {
	return &Service{client: client, items: items, products: products, log: log}
}

// Add reserves quantity units of the product and merges them into the cart.
// The reservation and the cart write commit in one transaction; a failure on
// either side rolls back both.
func (s *Service) Add(ctx context.Context, productID uuid.UUID, quantity int) (*CartItemDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var dto CartItemDTO
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.products.WithTx(tx)
		txItems := s.items.WithTx(tx)

		product, err := txProducts.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
			}
			return fmt.Errorf("loading product %s: %w", productID, err)
		}

		ok, err := txProducts.ReserveStock(ctx, productID, quantity)
		if err != nil {
			return fmt.Errorf("reserving stock for product %s: %w", productID, err)
		}
		if !ok {
			available := product.AvailableStock()
			return pkgerrors.New(
				pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("Insufficient stock. Available: %d", available),
			).WithDetails(InsufficientStockDetails{Available: available})
		}

		item, err := txItems.FindByProductID(ctx, productID)
		switch {
		case err == nil:
			item.Quantity += quantity
			if item, err = txItems.Save(ctx, item); err != nil {
				return fmt.Errorf("merging cart item: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &models.CartItem{ProductID: productID, Quantity: quantity}
			if item, err = txItems.Create(ctx, item); err != nil {
				// unique index on product_id backs the merge invariant; a
				// concurrent add can land first and trip it
				if db.IsUniqueViolation(err, "idx_cart_items_product_id") {
					return fmt.Errorf("concurrent cart insert for product %s: %w", productID, err)
				}
				return fmt.Errorf("creating cart item: %w", err)
			}
		default:
			return fmt.Errorf("looking up cart item: %w", err)
		}

		// re-read so the returned view carries the post-reservation stock
		if product, err = txProducts.FindByID(ctx, productID); err != nil {
			return fmt.Errorf("reloading product %s: %w", productID, err)
		}

		dto = newCartItemDTO(item, product)
		return nil
	})
	if err != nil {
		return nil, s.opError(ctx, "adding to cart", err)
	}

	return &dto, nil
}

// List returns the cart joined with product display fields, oldest first.
// Items whose product has been removed are omitted.
func (s *Service) List(ctx context.Context) ([]CartItemDTO, error) {
	rows, err := s.items.ListWithProducts(ctx)
	if err != nil {
		s.log.Error(ctx, "listing cart", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list cart")
	}

	dtos := make([]CartItemDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, newCartItemDTOFromRow(row))
	}
	return dtos, nil
}

// Remove releases the item's reservation and deletes the row in one
// transaction. An item whose product is gone is deleted without a restore.
// The delete happens first and is guarded by its row count, so a concurrent
// remove that commits in between cannot restore the stock twice.
func (s *Service) Remove(ctx context.Context, itemID uuid.UUID) error {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txItems := s.items.WithTx(tx)

		item, err := txItems.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, cartItemNotFoundMessage)
			}
			return fmt.Errorf("loading cart item %s: %w", itemID, err)
		}

		removed, err := txItems.Delete(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("deleting cart item %s: %w", item.ID, err)
		}
		if removed == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, cartItemNotFoundMessage)
		}

		if err := s.products.WithTx(tx).ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("releasing stock for product %s: %w", item.ProductID, err)
		}
		return nil
	})
	if err != nil {
		return s.opError(ctx, "removing cart item", err)
	}

	return nil
}

// Clear restores and deletes every cart item inside a single transaction, so
// an interrupted clear never double-restores or loses stock.
func (s *Service) Clear(ctx context.Context) error {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.products.WithTx(tx)
		txItems := s.items.WithTx(tx)

		items, err := txItems.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("listing cart items: %w", err)
		}

		var combined error
		for _, item := range items {
			removed, err := txItems.Delete(ctx, item.ID)
			if err != nil {
				combined = multierr.Append(combined, fmt.Errorf("deleting cart item %s: %w", item.ID, err))
				continue
			}
			if removed == 0 {
				// a concurrent remove already restored this one
				continue
			}
			if err := txProducts.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				combined = multierr.Append(combined, fmt.Errorf("releasing stock for product %s: %w", item.ProductID, err))
			}
		}
		return combined
	})
	if err != nil {
		return s.opError(ctx, "clearing cart", err)
	}

	return nil
}

func (s *Service) opError(ctx context.Context, msg string, err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	s.log.Error(ctx, msg, err)
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed while "+msg)
}
