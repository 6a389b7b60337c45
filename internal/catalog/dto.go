package catalog

import (
	"github.com/davemtz/storefront-api/pkg/db/models"
	"github.com/davemtz/storefront-api/pkg/types"
	"github.com/google/uuid"
)

// ProductDTO is the wire view of a product. Price is the float amount backed
// by the integer price_cents column; ReservedStock is read only.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Description   *string   `json:"description"`
	Stock         int       `json:"stock"`
	ReservedStock int       `json:"reserved_stock"`
}

func NewProductDTO(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Price:         types.CentsToAmount(product.PriceCents),
		Description:   product.Description,
		Stock:         product.Stock,
		ReservedStock: product.ReservedStock,
	}
}

func NewProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, NewProductDTO(&products[i]))
	}
	return dtos
}
