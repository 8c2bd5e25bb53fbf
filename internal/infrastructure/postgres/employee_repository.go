package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/comisiones/internal/domain"
	"github.com/jhoicas/comisiones/internal/domain/entity"
	"github.com/jhoicas/comisiones/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación de EmployeeRepository sobre la tabla de RRHH.
type EmployeeRepo struct {
	q     Querier
	table string
}

// NewEmployeeRepository construye el adaptador. table admite "esquema.tabla" (ej. rrhh.empleado).
func NewEmployeeRepository(q Querier, table string) *EmployeeRepo {
	return &EmployeeRepo{q: q, table: table}
}

// ListAll lee la tabla completa. Las columnas salen de la descripción del resultado,
// así que atributos nuevos de RRHH pasan al reporte sin cambios de código.
func (r *EmployeeRepo) ListAll(ctx context.Context) (*entity.Table, error) {
	ident, err := tableIdentifier(r.table)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, "SELECT * FROM "+ident)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("list empleados: la tabla %s no existe: %w", r.table, err)
		}
		return nil, fmt.Errorf("list empleados: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	table := entity.NewTable()
	for _, f := range fields {
		table.Columns = append(table.Columns, f.Name)
	}
	if !table.HasColumn(entity.ColEmpleadoID) {
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("list empleados: %w", err)
		}
		return nil, fmt.Errorf("%w: %q en %s", domain.ErrMissingColumn, entity.ColEmpleadoID, r.table)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan empleado: %w", err)
		}
		rec := make(entity.Record, len(values))
		for i, v := range values {
			rec[table.Columns[i]] = v
		}
		table.Rows = append(table.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("list empleados: la tabla %s no existe: %w", r.table, err)
		}
		return nil, fmt.Errorf("list empleados: %w", err)
	}
	return table, nil
}
