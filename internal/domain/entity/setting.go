package entity

import (
	"encoding/json"
	"time"
)

// Claves de configuración conocidas en la tabla settings.
const (
	SettingStockManagement   = "stock_management_enabled"
	SettingMinSaleAmount     = "min_sale_amount"
	SettingLowStockThreshold = "low_stock_threshold"
)

// Setting una fila de configuración de la aplicación: clave + valor JSON.
type Setting struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
}
