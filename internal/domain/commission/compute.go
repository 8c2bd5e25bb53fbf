package commission

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comisiones/internal/domain"
	"github.com/jhoicas/comisiones/internal/domain/entity"
	"github.com/jhoicas/comisiones/internal/domain/periodo"
)

// NumericColumns son las columnas que se coercionan a decimal antes de aplicar la fórmula.
var NumericColumns = []string{entity.ColSalario, entity.ColComision, entity.ColTopeComision}

// Compute devuelve una tabla nueva con las columnas numéricas coercionadas,
// comision_calculada y periodo agregados a cada fila. merged no se modifica.
func Compute(merged *entity.Table, p periodo.Periodo) (*entity.Table, error) {
	for _, c := range NumericColumns {
		if !merged.HasColumn(c) {
			return nil, fmt.Errorf("%w: %q en la tabla cruzada", domain.ErrMissingColumn, c)
		}
	}

	out := entity.NewTable(merged.Columns...)
	out.AddColumn(entity.ColComisionCalculada)
	out.AddColumn(entity.ColPeriodo)
	out.Rows = make([]entity.Record, 0, merged.Len())

	token := p.Token()
	for _, r := range merged.Rows {
		rec := make(entity.Record, len(out.Columns))
		for k, v := range r {
			rec[k] = v
		}
		salario := ToDecimal(r[entity.ColSalario])
		comision := ToDecimal(r[entity.ColComision])
		tope := ToDecimal(r[entity.ColTopeComision])

		rec[entity.ColSalario] = salario
		rec[entity.ColComision] = comision
		rec[entity.ColTopeComision] = tope
		rec[entity.ColComisionCalculada] = Calculate(salario, comision, tope)
		rec[entity.ColPeriodo] = token
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}

// Total suma comision_calculada de todas las filas.
func Total(t *entity.Table) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range t.Rows {
		sum = sum.Add(ToDecimal(r[entity.ColComisionCalculada]))
	}
	return sum
}
