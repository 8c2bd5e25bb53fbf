package commission

import (
	"context"

	"github.com/jhoicas/comisiones/internal/domain/entity"
)

// InputReader lee el archivo de comisiones del periodo.
// Si el archivo no existe debe devolver un error que envuelva domain.ErrInputNotFound.
type InputReader interface {
	Read(ctx context.Context, path string) (*entity.Table, error)
}

// SpreadsheetExporter escribe la tabla resultante en path (sobrescribe).
type SpreadsheetExporter interface {
	Export(ctx context.Context, table *entity.Table, path string) error
}

// ReportPDFGenerator genera el resumen imprimible del reporte.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, periodo string, table *entity.Table) ([]byte, error)
}

// Email datos del correo con el reporte.
type Email struct {
	From        string
	To          []string
	Subject     string
	BodyHTML    string
	Attachments []string
}

// Notifier entrega el correo con los adjuntos.
type Notifier interface {
	Notify(ctx context.Context, email Email) error
}
