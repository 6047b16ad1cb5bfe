package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrDataUnavailable = errors.New("los datos de ventas no están disponibles")
	ErrEmptyWindow     = errors.New("no hay datos para el período seleccionado")
	ErrNoSelection     = errors.New("no hay una selección activa")
	ErrInvalidPeriod   = errors.New("período inválido")
)
