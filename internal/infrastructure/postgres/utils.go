package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

// isUndefinedFunction verifica si un error es SQLSTATE 42883 (undefined_function):
// la función remota invocada no está desplegada en esta base. Es la única señal
// que dispara el camino de respaldo del protocolo de decremento.
func isUndefinedFunction(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42883" // undefined_function
}
