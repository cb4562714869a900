package client

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

func TestImportCSV(t *testing.T) {
	in := strings.Join([]string{
		"ID,Name,Username,Email,Role,Birth Date,Phone,Avatar",
		"1,Ann Lee,annlee,ann@example.com,User,15/03/1990,+1-555-0101,",
		"2,Bob Ruiz,bobruiz,bob@example.com,Manager,02/11/1985,,",
		"3,Sin Email,sinemail,,User,01/01/2000,,",       // falta email
		"4,Mal Rol,malrol,mal@example.com,Root,01/01/2000,,", // rol inexistente
	}, "\n")

	result, err := ImportCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Users, 2)
	require.Len(t, result.Errors, 2)

	ann := result.Users[0]
	assert.Equal(t, "Ann Lee", ann.Name)
	assert.Equal(t, "annlee", ann.Username)
	assert.Equal(t, "15/03/1990", ann.BirthDate)
	assert.Equal(t, entity.StatusActive, ann.Status)
	assert.NotZero(t, ann.ID)

	// Los ids asignados son únicos entre filas.
	assert.NotEqual(t, result.Users[0].ID, result.Users[1].ID)

	assert.Contains(t, result.Errors[0], "fila 3")
	assert.Contains(t, result.Errors[1], "fila 4")
}

func TestImportCSVColumnasDesordenadas(t *testing.T) {
	// El orden de columnas no importa: se resuelve por nombre de cabecera.
	in := strings.Join([]string{
		"Email,Role,Name,Username,Birth Date",
		"ann@example.com,Admin,Ann Lee,annlee,15/03/1990",
	}, "\n")

	result, err := ImportCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "ann@example.com", result.Users[0].Email)
	assert.Equal(t, entity.RoleAdmin, result.Users[0].Role)
}

func TestImportCSVSinCabecera(t *testing.T) {
	_, err := ImportCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	users := []dto.UserResponse{
		{ID: 1, Name: "Ann Lee", Username: "annlee", Email: "ann@example.com",
			Role: entity.RoleUser, BirthDate: "15/03/1990", Phone: "+1-555-0101",
			Avatar: "https://i.pravatar.cc/150?img=1", Status: entity.StatusActive},
		{ID: 2, Name: "Bob Ruiz", Username: "bobruiz", Email: "bob@example.com",
			Role: entity.RoleManager, BirthDate: "02/11/1985", Status: entity.StatusActive},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, users))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Username,Email,Role,Birth Date,Phone,Avatar", lines[0])
	assert.Equal(t, "1,Ann Lee,annlee,ann@example.com,User,15/03/1990,+1-555-0101,https://i.pravatar.cc/150?img=1", lines[1])

	// Lo exportado se puede volver a importar sin errores.
	result, err := ImportCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Users, 2)
}
