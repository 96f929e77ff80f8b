package stock

import (
	"fmt"

	"github.com/tu-usuario/pos-admin/internal/domain"
)

// InsufficientStockError no alcanza el stock para la cantidad pedida. Terminal:
// el usuario debe reducir la cantidad. Matchea domain.ErrInsufficientStock con errors.Is.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %d, disponible %d",
		e.ItemName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == domain.ErrInsufficientStock
}

// ConcurrentModificationError otra venta cambió el stock entre la lectura y la
// escritura condicional. Terminal para este intento: el caller debe refrescar y
// reenviar; no se reintenta automáticamente. CurrentStock es -1 si la relectura
// posterior a la carrera también falló.
type ConcurrentModificationError struct {
	ItemName     string
	CurrentStock int
}

func (e *ConcurrentModificationError) Error() string {
	if e.CurrentStock < 0 {
		return fmt.Sprintf("el stock de %q cambió durante la venta; refresque e intente de nuevo", e.ItemName)
	}
	return fmt.Sprintf("el stock de %q cambió durante la venta (disponible ahora: %d); refresque e intente de nuevo",
		e.ItemName, e.CurrentStock)
}

func (e *ConcurrentModificationError) Is(target error) bool {
	return target == domain.ErrConcurrentModification
}
