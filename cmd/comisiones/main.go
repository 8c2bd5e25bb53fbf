// Comando comisiones: genera y envía el reporte mensual de comisiones.
//
//	comisiones [--config ruta.json] [--periodo AAAAMM] [--sin-correo]
//
// Sale con 0 si el reporte se envió o si no hay archivo para el periodo; con 1 ante cualquier otro error.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	appcommission "github.com/jhoicas/comisiones/internal/application/commission"
	"github.com/jhoicas/comisiones/internal/domain/periodo"
	"github.com/jhoicas/comisiones/internal/infrastructure/csvsource"
	"github.com/jhoicas/comisiones/internal/infrastructure/excel"
	"github.com/jhoicas/comisiones/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/comisiones/internal/infrastructure/pdf"
	"github.com/jhoicas/comisiones/internal/infrastructure/postgres"
	"github.com/jhoicas/comisiones/pkg/config"
	"github.com/jhoicas/comisiones/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("comisiones", pflag.ContinueOnError)
	configPath := flags.String("config", "", "ruta del config.json (por defecto $CONFIG_FILE o junto al ejecutable)")
	periodoFlag := flags.String("periodo", "", "periodo AAAAMM a procesar (por defecto el mes actual)")
	skipMail := flags.Bool("sin-correo", false, "genera los archivos sin enviar el correo")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	boot := logger.New(logger.Config{Level: "info"})

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		boot.Error().Err(err).Msg("cargar configuración")
		return 1
	}
	if err := cfg.Validate(!*skipMail); err != nil {
		boot.Error().Err(err).Msg("validar configuración")
		return 1
	}

	p := periodo.Resolve(time.Now())
	if *periodoFlag != "" {
		if p, err = periodo.Parse(*periodoFlag); err != nil {
			boot.Error().Err(err).Msg("periodo")
			return 1
		}
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	}).WithRun(uuid.NewString(), p.Token())
	log.Info().Str("tabla", cfg.DB.Table).Str("csv_dir", cfg.Paths.CSVDir).Msg("iniciando cálculo de comisiones")

	uc := appcommission.NewReportUseCase(
		csvsource.NewReader(),
		postgres.NewEmployeeStore(cfg.DB),
		excel.NewExporter(),
		infrapdf.NewMarotoReportGenerator(),
		mail.NewNotifier(cfg.SMTP),
		appcommission.Settings{
			CSVDir:     cfg.Paths.CSVDir,
			CSVPattern: cfg.Paths.CSVPattern,
			ExcelPath:  cfg.Paths.Excel,
			PDFPath:    cfg.Paths.PDF,
			From:       cfg.SMTP.SenderEmail,
			To:         cfg.Report.To,
			Subject:    cfg.Report.Subject,
			BodyHTML:   cfg.Report.BodyHTML,
		},
		log,
	)

	start := time.Now()
	res, err := uc.Run(context.Background(), appcommission.Options{Periodo: &p, SkipMail: *skipMail})
	if err != nil {
		log.Error().Err(err).Dur("duracion", time.Since(start)).Msg("cálculo de comisiones fallido")
		return 1
	}
	if res.Skipped {
		return 0
	}

	log.Info().
		Int("filas", res.Rows).
		Str("total", res.Total.String()).
		Bool("enviado", res.Mailed).
		Dur("duracion", time.Since(start)).
		Msg("cálculo de comisiones finalizado")
	return 0
}
