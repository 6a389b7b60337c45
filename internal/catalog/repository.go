package catalog

import (
	"context"

	"github.com/davemtz/storefront-api/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns all products ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save updates an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// DeleteCartItems removes every cart item referencing the product. Mirrors the
// schema-level cascade so product deletion behaves the same on stores that do
// not enforce foreign keys.
func (r *Repository) DeleteCartItems(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.CartItem{}).Error
}

const reserveStockStmt = `
UPDATE products
SET stock = stock - ?,
    reserved_stock = COALESCE(reserved_stock, 0) + ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
  AND stock - COALESCE(reserved_stock, 0) >= ?
`

// ReserveStock moves qty units from available stock into the reservation in a
// single conditional update. It reports false, without error, when the product
// lacks qty available units (or does not exist); the rows-affected check is
// what makes concurrent reservations safe without row locks.
func (r *Repository) ReserveStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(reserveStockStmt, qty, qty, productID, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

const releaseStockStmt = `
UPDATE products
SET stock = stock + ?,
    reserved_stock = CASE WHEN COALESCE(reserved_stock, 0) >= ? THEN reserved_stock - ? ELSE 0 END,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

// ReleaseStock returns qty units from the reservation back to available stock.
// A missing product is not an error: orphaned cart items release nothing.
func (r *Repository) ReleaseStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Exec(releaseStockStmt, qty, qty, qty, productID).Error
}
