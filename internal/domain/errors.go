package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrItemNotFound       = errors.New("artículo no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrConcurrentModification indica que el stock cambió entre la lectura y la
	// escritura condicional (camino optimista). El caller debe refrescar y reintentar.
	ErrConcurrentModification = errors.New("el stock fue modificado por otra venta")

	// ErrRemoteUnavailable señal interna: la función remota decrease_item_stock no
	// está desplegada en la base. La decide el adaptador (SQLSTATE 42883), nunca se
	// infiere del texto del error ni se muestra al usuario.
	ErrRemoteUnavailable = errors.New("función remota no disponible")
)
