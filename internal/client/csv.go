package client

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

// csvHeader son las columnas del intercambio CSV.
var csvHeader = []string{"ID", "Name", "Username", "Email", "Role", "Birth Date", "Phone", "Avatar"}

// ImportResult es el resultado de una importación CSV: los usuarios válidos
// y un error legible por cada fila rechazada.
type ImportResult struct {
	Success bool
	Users   []dto.UserResponse
	Errors  []string
}

// ImportCSV lee usuarios desde CSV con cabecera. Las filas inválidas no
// abortan la importación: se acumulan como errores y el resto sigue.
// A cada fila aceptada se le asigna un id local basado en el reloj.
func ImportCSV(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validamos por nombre de columna, no por cuenta

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera CSV: %w", err)
	}
	colIdx := map[string]int{}
	for i, name := range header {
		colIdx[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := colIdx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	result := &ImportResult{}
	base := time.Now().UnixMilli()
	rowNum := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", rowNum, err))
			continue
		}

		name := field(row, "Name")
		username := field(row, "Username")
		email := field(row, "Email")
		birth := field(row, "Birth Date")
		role := field(row, "Role")
		if name == "" || username == "" || email == "" || birth == "" || role == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: faltan campos requeridos (Name, Username, Email, Birth Date, Role)", rowNum))
			continue
		}
		if !entity.ValidRole(role) {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: rol inválido %q (debe ser %s, %s o %s)", rowNum, role, entity.RoleAdmin, entity.RoleManager, entity.RoleUser))
			continue
		}

		result.Users = append(result.Users, dto.UserResponse{
			ID:        base + int64(rowNum),
			Name:      name,
			Username:  username,
			Email:     email,
			Avatar:    field(row, "Avatar"),
			Role:      role,
			BirthDate: birth,
			Phone:     field(row, "Phone"),
			Status:    entity.StatusActive,
		})
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// ExportCSV escribe los usuarios en CSV con la cabecera estándar.
func ExportCSV(w io.Writer, users []dto.UserResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("escribir cabecera CSV: %w", err)
	}
	for _, u := range users {
		row := []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Username,
			u.Email,
			u.Role,
			u.BirthDate,
			u.Phone,
			u.Avatar,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("escribir fila CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
