package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo con su stock disponible.
// Stock es entero y nunca negativo en estados comprometidos: solo se modifica vía el
// protocolo de decremento (ventas) o por edición administrativa, que invalida la caché.
type Item struct {
	ID           string
	CategoryID   string
	CategoryName string // denormalizado del JOIN con categories, solo lectura
	Name         string
	Brand        string
	Price        decimal.Decimal // precio de venta
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockInfo proyección mínima de Item usada por el camino optimista del decremento:
// el nombre solo participa en mensajes de error.
type StockInfo struct {
	ID    string
	Name  string
	Stock int
}
