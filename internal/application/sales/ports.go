package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-admin/internal/application/stock"
)

// Decrementer lo que el caso de uso necesita del protocolo de decremento de stock.
// *stock.Service lo satisface.
type Decrementer interface {
	Decrement(ctx context.Context, itemID string, qty int) (*stock.Result, error)
}

// SettingsReader configuración que condiciona la creación de ventas.
// *usecase.SettingsUseCase lo satisface.
type SettingsReader interface {
	StockManagementEnabled(ctx context.Context) bool
	MinSaleAmount(ctx context.Context) decimal.Decimal
}
