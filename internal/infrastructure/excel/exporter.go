// Package excel escribe la tabla de comisiones como libro .xlsx de una hoja.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appcommission "github.com/jhoicas/comisiones/internal/application/commission"
	"github.com/jhoicas/comisiones/internal/domain/entity"
)

var _ appcommission.SpreadsheetExporter = (*Exporter)(nil)

// DefaultSheet es el nombre de la única hoja del libro.
const DefaultSheet = "Sheet1"

// Exporter serializa tablas a Excel.
type Exporter struct {
	Sheet string
}

// NewExporter construye el exportador con la hoja por defecto.
func NewExporter() *Exporter { return &Exporter{Sheet: DefaultSheet} }

// Export escribe encabezado + filas en path, sobrescribiendo cualquier archivo previo.
// El directorio padre se crea si no existe. No hay escritura atómica.
func (e *Exporter) Export(ctx context.Context, table *entity.Table, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := e.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("excel: renombrar hoja: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("excel: stream writer: %w", err)
	}

	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("excel: encabezado: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22}) // m/d/yy h:mm
	if err != nil {
		return fmt.Errorf("excel: estilo fecha: %w", err)
	}

	for i := range table.Rows {
		values := table.Values(i)
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = cellValue(v, dateStyle)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: celda fila %d: %w", i+2, err)
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("excel: flush: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("excel: crear directorio %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel: guardar %s: %w", path, err)
	}
	return nil
}

// cellValue adapta los valores de la tabla a tipos que excelize escribe de forma nativa.
// Los decimales se escriben como número (double de Excel): los montos con hasta 15
// dígitos significativos conservan su valor exacto; más allá Excel no los representa.
func cellValue(v any, dateStyle int) any {
	switch x := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return x.InexactFloat64()
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal.InexactFloat64()
	case time.Time:
		return excelize.Cell{StyleID: dateStyle, Value: x}
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return string(x)
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x
	default:
		return fmt.Sprint(x)
	}
}
