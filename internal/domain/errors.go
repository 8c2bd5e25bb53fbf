package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrConfigNotFound = errors.New("archivo de configuración no encontrado")
	ErrInputNotFound  = errors.New("no hay archivo de comisiones para el periodo")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrMissingColumn  = errors.New("columna requerida ausente")
	ErrInvalidPeriodo = errors.New("periodo inválido")
)
