package repository

import (
	"context"

	"github.com/jhoicas/comisiones/internal/domain/entity"
)

// EmployeeRepository define el puerto de lectura de la tabla de empleados (RRHH).
// ListAll materializa todas las filas con todas sus columnas.
type EmployeeRepository interface {
	ListAll(ctx context.Context) (*entity.Table, error)
}
