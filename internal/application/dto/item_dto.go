package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de artículo.
type CreateItemRequest struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
}

// UpdateItemRequest edición parcial de artículo. Stock no nulo es una edición
// administrativa de stock e invalida la caché de artículos.
type UpdateItemRequest struct {
	CategoryID *string          `json:"category_id"`
	Name       *string          `json:"name"`
	Brand      *string          `json:"brand"`
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock"`
}

// ItemResponse artículo en respuestas.
type ItemResponse struct {
	ID           string          `json:"id"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse listado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}
