// Package periodo resuelve el ciclo de reporte (AAAAMM) y el nombre del archivo de entrada asociado.
package periodo

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/comisiones/internal/domain"
)

// DefaultFilePattern es el patrón del CSV de comisiones; %s se reemplaza por el token AAAAMM.
const DefaultFilePattern = "ComisionEmpleados_V1_%s.csv"

const layout = "200601"

// Periodo identifica un ciclo de reporte mensual.
type Periodo struct {
	Year  int
	Month time.Month
}

// Resolve deriva el periodo a partir de la fecha indicada (año + mes locales).
func Resolve(now time.Time) Periodo {
	return Periodo{Year: now.Year(), Month: now.Month()}
}

// Parse valida un token AAAAMM (6 dígitos, mes 01–12).
func Parse(token string) (Periodo, error) {
	token = strings.TrimSpace(token)
	if len(token) != 6 {
		return Periodo{}, fmt.Errorf("%w: %q debe tener formato AAAAMM", domain.ErrInvalidPeriodo, token)
	}
	t, err := time.Parse(layout, token)
	if err != nil {
		return Periodo{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidPeriodo, token, err)
	}
	return Resolve(t), nil
}

// Token devuelve el periodo como AAAAMM.
func (p Periodo) Token() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// String implementa fmt.Stringer.
func (p Periodo) String() string { return p.Token() }

// FileName construye el nombre del archivo de entrada. Un patrón vacío usa DefaultFilePattern.
func (p Periodo) FileName(pattern string) string {
	if pattern == "" {
		pattern = DefaultFilePattern
	}
	return fmt.Sprintf(pattern, p.Token())
}
