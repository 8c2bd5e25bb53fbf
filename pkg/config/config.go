package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhoicas/comisiones/internal/domain"
)

// EnvConfigFile es la variable de entorno que indica la ruta del archivo de configuración.
const EnvConfigFile = "CONFIG_FILE"

// DefaultFileName es el archivo buscado junto al ejecutable cuando no se indica otro.
const DefaultFileName = "config.json"

// Config agrupa la configuración del proceso (archivo JSON vía Viper, con override por env).
type Config struct {
	App    AppConfig
	DB     DBConfig
	SMTP   SMTPConfig
	Paths  PathsConfig
	Report ReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development -> consola legible; production -> JSON
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Table       string // tabla de empleados, ej. rrhh.empleado
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SMTPConfig servidor de correo saliente.
type SMTPConfig struct {
	Server      string
	Port        int
	SenderEmail string
	User        string
	Password    string
}

// Addr devuelve host:port del relay.
func (c SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
}

// PathsConfig rutas de entrada y salida.
type PathsConfig struct {
	CSVDir     string
	CSVPattern string // %s = periodo AAAAMM
	Excel      string
	PDF        string // opcional: resumen PDF adjunto
}

// ReportConfig contenido del correo.
type ReportConfig struct {
	To       []string
	Subject  string
	BodyHTML string
}

// ResolvePath decide qué archivo leer: flag explícito, luego $CONFIG_FILE,
// luego config.json junto al ejecutable.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return env
	}
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// Load lee el archivo JSON indicado. Las variables de entorno tienen prioridad sobre el archivo
// (db.password ↔ DB_PASSWORD, smtp.user ↔ SMTP_USER, etc.).
// Si el archivo no existe devuelve domain.ErrConfigNotFound.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: leer %s: %w", path, err)
	}
	return fromViper(v), nil
}

// Validate verifica las claves sin valor por defecto. Con mail=false no se exige la sección smtp/report.
func (c *Config) Validate(mail bool) error {
	var missing []string
	if c.Paths.Excel == "" {
		missing = append(missing, "paths.excel")
	}
	if mail {
		if c.SMTP.Server == "" {
			missing = append(missing, "smtp.server")
		}
		if c.SMTP.SenderEmail == "" {
			missing = append(missing, "smtp.sender_email")
		}
		if len(c.Report.To) == 0 {
			missing = append(missing, "report.to")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: faltan claves: %s", strings.Join(missing, ", "))
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Config{
		App: AppConfig{
			Env:      getString(v, "app.env", "production"),
			LogLevel: getString(v, "app.log_level", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "db.database_url", ""),
			Host:        getString(v, "db.host", "localhost"),
			Port:        getInt(v, "db.port", 5432),
			User:        getString(v, "db.user", "postgres"),
			Password:    getString(v, "db.password", ""),
			DBName:      getString(v, "db.dbname", "postgres"),
			SSLMode:     getString(v, "db.sslmode", "prefer"),
			Table:       getString(v, "db.table", "rrhh.empleado"),
		},
		SMTP: SMTPConfig{
			Server:      getString(v, "smtp.server", ""),
			Port:        getInt(v, "smtp.port", 587),
			SenderEmail: getString(v, "smtp.sender_email", ""),
			User:        getString(v, "smtp.user", ""),
			Password:    getString(v, "smtp.password", ""),
		},
		Paths: PathsConfig{
			CSVDir:     getString(v, "paths.csv_dir", "."),
			CSVPattern: getString(v, "paths.csv_pattern", ""),
			Excel:      getString(v, "paths.excel", ""),
			PDF:        getString(v, "paths.pdf", ""),
		},
		Report: ReportConfig{
			To:       getList(v, "report.to"),
			Subject:  getString(v, "report.subject", ""),
			BodyHTML: getString(v, "report.body_html", ""),
		},
	}
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getList acepta un string separado por comas o un arreglo JSON.
func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var raw []string
	switch x := v.Get(key).(type) {
	case []any:
		for _, item := range x {
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = strings.Split(v.GetString(key), ",")
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
