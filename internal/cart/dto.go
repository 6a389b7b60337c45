package cart

import (
	"github.com/davemtz/storefront-api/pkg/db/models"
	"github.com/davemtz/storefront-api/pkg/types"
	"github.com/google/uuid"
)

// CartItemDTO is the wire view of one cart row, including the product display
// fields the storefront renders.
type CartItemDTO struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductPrice float64   `json:"product_price"`
	Quantity     int       `json:"quantity"`
	TotalPrice   float64   `json:"total_price"`
}

func newCartItemDTO(item *models.CartItem, product *models.Product) CartItemDTO {
	return CartItemDTO{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  product.Name,
		ProductPrice: types.CentsToAmount(product.PriceCents),
		Quantity:     item.Quantity,
		TotalPrice:   types.LineTotal(product.PriceCents, item.Quantity),
	}
}

func newCartItemDTOFromRow(row ItemWithProduct) CartItemDTO {
	return CartItemDTO{
		ID:           row.ID,
		ProductID:    row.ProductID,
		ProductName:  row.ProductName,
		ProductPrice: types.CentsToAmount(row.ProductPriceCents),
		Quantity:     row.Quantity,
		TotalPrice:   types.LineTotal(row.ProductPriceCents, row.Quantity),
	}
}
