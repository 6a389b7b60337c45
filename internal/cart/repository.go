package cart

import (
	"context"

	"github.com/davemtz/storefront-api/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together cart item persistence helpers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByProductID returns the single cart row for a product, if any. The
// merge-on-add flow guarantees at most one row per product.
func (r *Repository) FindByProductID(ctx context.Context, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListAll returns every cart item ordered by insertion time.
func (r *Repository) ListAll(ctx context.Context) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// ItemWithProduct is a cart row joined with its product's display fields.
type ItemWithProduct struct {
	ID                uuid.UUID
	ProductID         uuid.UUID
	Quantity          int
	ProductName       string
	ProductPriceCents int64
}

const listWithProductsStmt = `
SELECT ci.id,
       ci.product_id,
       ci.quantity,
       p.name AS product_name,
       p.price_cents AS product_price_cents
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
ORDER BY ci.created_at ASC
`

// ListWithProducts joins cart items with products. The inner join drops rows
// whose product no longer exists.
func (r *Repository) ListWithProducts(ctx context.Context) ([]ItemWithProduct, error) {
	var rows []ItemWithProduct
	err := r.db.WithContext(ctx).Raw(listWithProductsStmt).Scan(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) Save(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the cart row and reports how many rows were affected. A zero
// count means a concurrent delete already claimed the row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
