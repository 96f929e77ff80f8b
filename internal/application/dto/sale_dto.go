package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del carrito al crear la venta.
type SaleLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CreateSaleRequest registro de una venta: líneas con artículo y cantidad.
// Precio y nombre se toman del catálogo al momento de vender, no del cliente.
type CreateSaleRequest struct {
	Lines []SaleLineRequest `json:"lines"`
}

// UpdateSaleRequest edición del total de una venta (queda rastro en edit_log).
type UpdateSaleRequest struct {
	Total decimal.Decimal `json:"total"`
}

// SaleLineResponse una línea vendida.
type SaleLineResponse struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID            string             `json:"id"`
	EmployeeID    string             `json:"employee_id"`
	EmployeeEmail string             `json:"employee_email,omitempty"`
	Lines         []SaleLineResponse `json:"lines"`
	Total         decimal.Decimal    `json:"total"`
	EditLog       json.RawMessage    `json:"edit_log,omitempty"`
	EditedByAdmin bool               `json:"edited_by_admin"`
	IsDeleted     bool               `json:"is_deleted"`
	DeletedAt     *time.Time         `json:"deleted_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListResponse listado de ventas.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Total int            `json:"total"`
}
