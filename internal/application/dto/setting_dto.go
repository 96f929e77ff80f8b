package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// UpsertSettingRequest escritura de una fila de configuración.
type UpsertSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// SettingResponse fila de configuración en respuestas.
type SettingResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DailySalesResponse agregado de ventas de un día para reportes.
type DailySalesResponse struct {
	Day     time.Time       `json:"day"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesSummaryResponse resumen de ventas por día en un rango.
type SalesSummaryResponse struct {
	Days []DailySalesResponse `json:"days"`
}
