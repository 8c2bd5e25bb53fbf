package commission

import (
	"fmt"
	"sort"

	"github.com/jhoicas/comisiones/internal/domain"
	"github.com/jhoicas/comisiones/internal/domain/entity"
)

// Sufijos para columnas (distintas de la clave) presentes en ambas tablas.
const (
	SuffixLeft  = "_x"
	SuffixRight = "_y"
)

// JoinStats resume el resultado del cruce.
type JoinStats struct {
	LeftRows      int
	RightRows     int
	Matched       int      // filas de salida
	UnmatchedLeft int      // filas del CSV sin empleado en la BD
	DuplicateKeys []string // claves repetidas que multiplicaron filas
}

// Join realiza un inner join de left y right sobre la columna key.
//
// El orden de salida sigue el de left y, para cada fila, el de sus coincidencias en right.
// La unicidad de la clave no se exige: claves repetidas producen el producto cruzado
// y se reportan en JoinStats.DuplicateKeys.
func Join(left, right *entity.Table, key string) (*entity.Table, JoinStats, error) {
	stats := JoinStats{LeftRows: left.Len(), RightRows: right.Len()}
	if !left.HasColumn(key) {
		return nil, stats, fmt.Errorf("%w: %q en la tabla izquierda", domain.ErrMissingColumn, key)
	}
	if !right.HasColumn(key) {
		return nil, stats, fmt.Errorf("%w: %q en la tabla derecha", domain.ErrMissingColumn, key)
	}

	leftNames, rightNames := joinColumnNames(left.Columns, right.Columns, key)
	out := entity.NewTable()
	for _, c := range left.Columns {
		out.Columns = append(out.Columns, leftNames[c])
	}
	for _, c := range right.Columns {
		if c != key {
			out.Columns = append(out.Columns, rightNames[c])
		}
	}

	index := make(map[string][]int, right.Len())
	for i, r := range right.Rows {
		if k, ok := canonicalKey(r[key]); ok {
			index[k] = append(index[k], i)
		}
	}

	leftCount := make(map[string]int, left.Len())
	dup := make(map[string]struct{})
	for _, l := range left.Rows {
		k, ok := canonicalKey(l[key])
		if !ok {
			stats.UnmatchedLeft++
			continue
		}
		leftCount[k]++
		matches := index[k]
		if len(matches) == 0 {
			stats.UnmatchedLeft++
			continue
		}
		if len(matches) > 1 || leftCount[k] > 1 {
			dup[k] = struct{}{}
		}
		for _, ri := range matches {
			rec := make(entity.Record, len(out.Columns))
			for c, v := range l {
				if name, ok := leftNames[c]; ok {
					rec[name] = v
				}
			}
			for c, v := range right.Rows[ri] {
				if c == key {
					continue
				}
				if name, ok := rightNames[c]; ok {
					rec[name] = v
				}
			}
			out.Rows = append(out.Rows, rec)
		}
	}

	stats.Matched = out.Len()
	for k := range dup {
		stats.DuplicateKeys = append(stats.DuplicateKeys, k)
	}
	sort.Strings(stats.DuplicateKeys)
	return out, stats, nil
}

// joinColumnNames resuelve el nombre de salida de cada columna de entrada.
func joinColumnNames(leftCols, rightCols []string, key string) (map[string]string, map[string]string) {
	inLeft := make(map[string]bool, len(leftCols))
	for _, c := range leftCols {
		inLeft[c] = true
	}
	inRight := make(map[string]bool, len(rightCols))
	for _, c := range rightCols {
		inRight[c] = true
	}

	leftNames := make(map[string]string, len(leftCols))
	for _, c := range leftCols {
		if c != key && inRight[c] {
			leftNames[c] = c + SuffixLeft
		} else {
			leftNames[c] = c
		}
	}
	rightNames := make(map[string]string, len(rightCols))
	for _, c := range rightCols {
		if c == key {
			continue
		}
		if inLeft[c] {
			rightNames[c] = c + SuffixRight
		} else {
			rightNames[c] = c
		}
	}
	return leftNames, rightNames
}
