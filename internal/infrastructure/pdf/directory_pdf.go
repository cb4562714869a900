// Package pdf genera el directorio imprimible de usuarios.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Nombre | Username | Email | Rol | Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de usuarios                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoDirectoryGenerator genera el directorio de usuarios usando Maroto v2.
type MarotoDirectoryGenerator struct{}

// NewMarotoDirectoryGenerator construye el generador.
func NewMarotoDirectoryGenerator() *MarotoDirectoryGenerator { return &MarotoDirectoryGenerator{} }

// GenerateDirectoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoDirectoryGenerator) GenerateDirectoryPDF(_ context.Context, users []*entity.User) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Directorio de usuarios", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, u := range users {
		m.AddRows(userRow(u))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(users)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título + fecha de generación.
func headerRow() core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(14).Add(
		col.New(8).Add(
			text.New("DIRECTORIO DE USUARIOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 5, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla del directorio.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Nombre", 3, align.Left),
		h("Username", 2, align.Left),
		h("Email", 3, align.Left),
		h("Rol", 2, align.Center),
		h("Estado", 1, align.Center),
	)
}

// userRow: una fila por usuario.
func userRow(u *entity.User) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		cell(fmt.Sprintf("%d", u.ID), 1, align.Center),
		cell(u.Name, 3, align.Left),
		cell(u.Username, 2, align.Left),
		cell(u.Email, 3, align.Left),
		cell(u.Role, 2, align.Center),
		cell(u.Status, 1, align.Center),
	)
}

// footerRow: total de usuarios listados.
func footerRow(total int) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Total: %d usuarios", total), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		),
	)
}
