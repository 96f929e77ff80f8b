package entity

import "time"

// Category agrupa artículos del catálogo.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
