package cache

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
)

// sanitizeItems normaliza price y stock de cada artículo con coerción explícita por
// campo. La base heredada llegó a guardar precios nulos o basura en esas columnas;
// el adaptador ya coerce los NULL, y esta pasada se aplica incondicionalmente a todo
// lo que el Store devuelve (cacheado o recién traído) para que un mismo artículo se
// vea igual en ambos casos. Es idempotente.
func sanitizeItems(items []entity.Item) []entity.Item {
	for i := range items {
		items[i].Price = sanitizePrice(items[i].Price)
		items[i].Stock = sanitizeStock(items[i].Stock)
	}
	return items
}

// sanitizePrice un precio inválido (negativo) colapsa a 0, como hacía el cliente
// original con valores no numéricos.
func sanitizePrice(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// sanitizeStock un stock inválido (negativo) colapsa a 0; los estados comprometidos
// nunca son negativos, así que esto solo corrige datos heredados corruptos.
func sanitizeStock(s int) int {
	if s < 0 {
		return 0
	}
	return s
}
