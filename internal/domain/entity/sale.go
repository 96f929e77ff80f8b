package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine una línea vendida dentro de una venta. Name y Price se copian del artículo
// al momento de la venta para que el histórico no cambie si el catálogo se edita.
type SaleLine struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Sale representa una venta registrada por un empleado.
// Las ventas nunca se borran físicamente: DeleteSale marca IsDeleted y deja rastro en EditLog.
type Sale struct {
	ID            string
	EmployeeID    string
	EmployeeEmail string // denormalizado del JOIN con users, solo lectura
	Lines         []SaleLine
	Total         decimal.Decimal
	EditLog       json.RawMessage // historial de ediciones/borrados, keyed por timestamp ISO
	EditedByAdmin bool
	IsDeleted     bool
	DeletedAt     *time.Time
	CreatedAt     time.Time
}

// EditLogEntry una entrada del historial de ediciones de una venta.
type EditLogEntry struct {
	Action        string           `json:"action,omitempty"` // "deleted" cuando aplica
	PreviousTotal *decimal.Decimal `json:"previous_total,omitempty"`
	NewTotal      *decimal.Decimal `json:"new_total,omitempty"`
	EditedBy      string           `json:"edited_by,omitempty"`
	DeletedBy     string           `json:"deleted_by,omitempty"`
	IsAdmin       bool             `json:"is_admin"`
}

// AppendEditLog agrega una entrada al historial keyed por el timestamp dado (RFC3339).
// EditLog puede venir vacío o nulo; se trata como objeto vacío.
func (s *Sale) AppendEditLog(ts time.Time, entry EditLogEntry) error {
	log := map[string]EditLogEntry{}
	if len(s.EditLog) > 0 {
		if err := json.Unmarshal(s.EditLog, &log); err != nil {
			// historial corrupto: se reinicia en lugar de perder la edición actual
			log = map[string]EditLogEntry{}
		}
	}
	log[ts.UTC().Format(time.RFC3339Nano)] = entry
	raw, err := json.Marshal(log)
	if err != nil {
		return err
	}
	s.EditLog = raw
	return nil
}
