package commission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comisiones/internal/domain"
	domcommission "github.com/jhoicas/comisiones/internal/domain/commission"
	"github.com/jhoicas/comisiones/internal/domain/entity"
	"github.com/jhoicas/comisiones/internal/domain/periodo"
	"github.com/jhoicas/comisiones/internal/domain/repository"
	"github.com/jhoicas/comisiones/pkg/logger"
)

// Settings rutas y datos del correo (vienen de la configuración).
type Settings struct {
	CSVDir     string
	CSVPattern string
	ExcelPath  string
	PDFPath    string // vacío = sin resumen PDF

	From     string
	To       []string
	Subject  string
	BodyHTML string
}

// Options ajustes de una ejecución.
type Options struct {
	Periodo  *periodo.Periodo // nil = periodo del reloj
	SkipMail bool
}

// Result resumen de la ejecución.
type Result struct {
	Periodo   string
	InputPath string
	Skipped   bool // no había archivo de entrada para el periodo
	Rows      int
	Total     decimal.Decimal
	ExcelPath string
	PDFPath   string
	Mailed    bool
	Stats     domcommission.JoinStats
}

// ReportUseCase ejecuta el batch mensual de comisiones:
// periodo → CSV → empleados → cruce + cálculo → Excel (+ PDF) → correo.
type ReportUseCase struct {
	reader    InputReader
	employees repository.EmployeeRepository
	exporter  SpreadsheetExporter
	pdf       ReportPDFGenerator
	notifier  Notifier
	settings  Settings
	log       *logger.Logger
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso inyectando todas sus dependencias.
// pdf puede ser nil si no se genera resumen.
func NewReportUseCase(
	reader InputReader,
	employees repository.EmployeeRepository,
	exporter SpreadsheetExporter,
	pdf ReportPDFGenerator,
	notifier Notifier,
	settings Settings,
	log *logger.Logger,
) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		reader:    reader,
		employees: employees,
		exporter:  exporter,
		pdf:       pdf,
		notifier:  notifier,
		settings:  settings,
		log:       log,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Run ejecuta el flujo completo. La ausencia del archivo del periodo no es error:
// devuelve Result.Skipped=true sin escribir archivos ni enviar correo.
func (uc *ReportUseCase) Run(ctx context.Context, opts Options) (*Result, error) {
	// ── 1. Periodo ────────────────────────────────────────────────────────────
	p := periodo.Resolve(uc.now())
	if opts.Periodo != nil {
		p = *opts.Periodo
	}
	res := &Result{Periodo: p.Token()}
	res.InputPath = filepath.Join(uc.settings.CSVDir, p.FileName(uc.settings.CSVPattern))

	// ── 2. Archivo del periodo ────────────────────────────────────────────────
	input, err := uc.reader.Read(ctx, res.InputPath)
	if err != nil {
		if errors.Is(err, domain.ErrInputNotFound) {
			uc.log.Info().Str("archivo", res.InputPath).Msg("no hay comisiones para el periodo, fin")
			res.Skipped = true
			return res, nil
		}
		return nil, fmt.Errorf("leer comisiones: %w", err)
	}
	uc.log.Info().Str("archivo", res.InputPath).Int("filas", input.Len()).Msg("archivo de comisiones leído")

	// ── 3. Empleados ──────────────────────────────────────────────────────────
	employees, err := uc.employees.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer empleados: %w", err)
	}
	uc.log.Info().Int("filas", employees.Len()).Msg("empleados leídos")

	// ── 4. Cruce + cálculo ────────────────────────────────────────────────────
	merged, stats, err := domcommission.Join(input, employees, entity.ColEmpleadoID)
	if err != nil {
		return nil, fmt.Errorf("cruzar comisiones con empleados: %w", err)
	}
	res.Stats = stats
	if len(stats.DuplicateKeys) > 0 {
		uc.log.Warn().Strs("empleado_ids", stats.DuplicateKeys).
			Msg("empleado_id repetido: el cruce multiplica filas")
	}
	if stats.UnmatchedLeft > 0 {
		uc.log.Warn().Int("filas", stats.UnmatchedLeft).Msg("filas del CSV sin empleado en la BD, se descartan")
	}

	out, err := domcommission.Compute(merged, p)
	if err != nil {
		return nil, fmt.Errorf("calcular comisiones: %w", err)
	}
	res.Rows = out.Len()
	res.Total = domcommission.Total(out)

	// ── 5. Excel ──────────────────────────────────────────────────────────────
	if err := uc.exporter.Export(ctx, out, uc.settings.ExcelPath); err != nil {
		return nil, fmt.Errorf("exportar excel: %w", err)
	}
	res.ExcelPath = uc.settings.ExcelPath
	attachments := []string{res.ExcelPath}
	uc.log.Info().Str("archivo", res.ExcelPath).Int("filas", res.Rows).Str("total", res.Total.String()).Msg("excel generado")

	// ── 6. Resumen PDF (opcional) ─────────────────────────────────────────────
	if uc.pdf != nil && uc.settings.PDFPath != "" {
		if err := uc.writePDF(ctx, p, out); err != nil {
			return nil, err
		}
		res.PDFPath = uc.settings.PDFPath
		attachments = append(attachments, res.PDFPath)
	}

	// ── 7. Correo ─────────────────────────────────────────────────────────────
	if opts.SkipMail {
		uc.log.Info().Msg("envío de correo omitido")
		return res, nil
	}
	err = uc.notifier.Notify(ctx, Email{
		From:        uc.settings.From,
		To:          uc.settings.To,
		Subject:     uc.settings.Subject,
		BodyHTML:    uc.settings.BodyHTML,
		Attachments: attachments,
	})
	if err != nil {
		return nil, fmt.Errorf("enviar reporte: %w", err)
	}
	res.Mailed = true
	uc.log.Info().Strs("para", uc.settings.To).Msg("reporte enviado")
	return res, nil
}

func (uc *ReportUseCase) writePDF(ctx context.Context, p periodo.Periodo, out *entity.Table) error {
	data, err := uc.pdf.GenerateReportPDF(ctx, p.Token(), out)
	if err != nil {
		return fmt.Errorf("generar pdf: %w", err)
	}
	path := uc.settings.PDFPath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("generar pdf: crear directorio %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("generar pdf: escribir %s: %w", path, err)
	}
	uc.log.Info().Str("archivo", path).Msg("pdf generado")
	return nil
}
