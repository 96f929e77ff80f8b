package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User representa un usuario del sistema (administrador o empleado de caja).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, employee
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
