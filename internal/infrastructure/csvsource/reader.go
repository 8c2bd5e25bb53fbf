// Package csvsource lee el archivo de comisiones del periodo (CSV separado por ';').
//
// El archivo suele venir de una exportación de Excel, así que el lector tolera:
//   - BOM UTF-8 al inicio
//   - codificación Windows-1252 cuando los bytes no son UTF-8 válido
//   - encabezados con acentos combinados (NFD) o con espacios alrededor
//
// Filas con un número de campos distinto al encabezado o con comillas mal cerradas
// son errores de parseo (domain.ErrInvalidInput).
package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	appcommission "github.com/jhoicas/comisiones/internal/application/commission"
	"github.com/jhoicas/comisiones/internal/domain"
	"github.com/jhoicas/comisiones/internal/domain/entity"
)

var _ appcommission.InputReader = (*Reader)(nil)

// DefaultComma es el separador de campos del archivo de comisiones.
const DefaultComma = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader lee tablas CSV con encabezado.
type Reader struct {
	Comma    rune
	Required []string // columnas obligatorias (tras normalizar el encabezado)
}

// NewReader construye el lector para el archivo de comisiones (';', empleado_id y Comisión obligatorios).
func NewReader() *Reader {
	return &Reader{
		Comma:    DefaultComma,
		Required: []string{entity.ColEmpleadoID, entity.ColComision},
	}
}

// Read abre path y lo materializa. Si el archivo no existe devuelve domain.ErrInputNotFound.
func (r *Reader) Read(ctx context.Context, path string) (*entity.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("csv: abrir %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("csv: leer %s: %w", path, err)
	}

	table, err := r.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return table, nil
}

// Parse interpreta el contenido completo de un archivo.
func (r *Reader) Parse(data []byte) (*entity.Table, error) {
	data, err := decode(data)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = r.Comma
	if cr.Comma == 0 {
		cr.Comma = DefaultComma
	}
	cr.FieldsPerRecord = 0 // todas las filas con el mismo número de campos que el encabezado

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: encabezado: %v", domain.ErrInvalidInput, err)
	}

	table := entity.NewTable(normalizeHeader(header)...)
	for _, req := range r.Required {
		if !table.HasColumn(req) {
			return nil, fmt.Errorf("%w: %q", domain.ErrMissingColumn, req)
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		row := make(entity.Record, len(table.Columns))
		for i, c := range table.Columns {
			row[c] = rec[i]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// decode quita el BOM y convierte Windows-1252 a UTF-8 cuando hace falta.
func decode(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: codificación: %v", domain.ErrInvalidInput, err)
	}
	return out, nil
}

// normalizeHeader limpia los nombres de columna: NFC, sin espacios alrededor,
// "Unnamed: N" para vacíos y sufijo ".N" para repetidos.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := norm.NFC.String(strings.TrimSpace(h))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}
