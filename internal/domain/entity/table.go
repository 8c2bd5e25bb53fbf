package entity

// Nombres de columna con significado para el cálculo de comisiones.
const (
	ColEmpleadoID        = "empleado_id"
	ColComision          = "Comisión"
	ColSalario           = "mnt_salario"
	ColTopeComision      = "mnt_tope_comision"
	ColComisionCalculada = "comision_calculada"
	ColPeriodo           = "periodo"
)

// Record es una fila de una tabla: nombre de columna → valor.
// Los valores pueden ser string (CSV), valores del driver (BD) o decimal.Decimal tras la coerción.
type Record map[string]any

// Table representa un conjunto tabular en memoria.
// Columns fija el orden de salida; cada Record puede omitir columnas (se tratan como nulas).
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable crea una tabla vacía con las columnas indicadas.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn indica si la tabla declara la columna.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex devuelve la posición de la columna o -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddColumn agrega una columna al final si no existe.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Len devuelve el número de filas.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Values devuelve los valores de la fila i en el orden de Columns.
func (t *Table) Values(i int) []any {
	out := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i][c]
	}
	return out
}
