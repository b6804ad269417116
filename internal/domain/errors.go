package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos son recuperables: la operación que los devuelve no modifica el estado en memoria.
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("el producto ya existe")
	ErrNotFound          = errors.New("no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPersistence       = errors.New("error de persistencia")
)
