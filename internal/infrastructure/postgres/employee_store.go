package postgres

import (
	"context"

	"github.com/jhoicas/comisiones/internal/domain/entity"
	"github.com/jhoicas/comisiones/internal/domain/repository"
	"github.com/jhoicas/comisiones/pkg/config"
)

var _ repository.EmployeeRepository = (*EmployeeStore)(nil)

// EmployeeStore abre la conexión solo cuando se necesita: pool → SELECT → cierre.
// Así un mes sin archivo de entrada no toca la base de datos.
type EmployeeStore struct {
	cfg config.DBConfig
}

// NewEmployeeStore construye el store con la configuración de la BD.
func NewEmployeeStore(cfg config.DBConfig) *EmployeeStore {
	return &EmployeeStore{cfg: cfg}
}

// ListAll conecta, lee la tabla de empleados completa y libera la conexión.
func (s *EmployeeStore) ListAll(ctx context.Context) (*entity.Table, error) {
	pool, err := NewPool(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	return NewEmployeeRepository(pool, s.cfg.Table).ListAll(ctx)
}
