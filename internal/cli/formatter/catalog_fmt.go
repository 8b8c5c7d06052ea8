package formatter

import (
	"fmt"
	"strings"

	"github.com/mujeralerta/diagnostico/internal/intake"
)

// FormatCatalogs renders the center and gender lists offered at intake.
func FormatCatalogs(cat intake.Catalogs) string {
	var b strings.Builder

	b.WriteString(Header("Centros"))
	b.WriteString("\n")
	if len(cat.Centros) == 0 {
		b.WriteString(Dim("Sin centros disponibles."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(cat.Centros))
		for _, c := range cat.Centros {
			rows = append(rows, []string{fmt.Sprintf("%d", c.ID), c.Tipo, c.Label()})
		}
		b.WriteString(RenderTableAligned([]string{"ID", "TIPO", "NOMBRE"}, rows, map[int]bool{0: true}))
	}

	b.WriteString("\n")
	b.WriteString(Header("Géneros"))
	b.WriteString("\n")
	if len(cat.Generos) == 0 {
		b.WriteString(Dim("Sin géneros disponibles."))
		b.WriteString("\n")
		return b.String()
	}
	rows := make([][]string, 0, len(cat.Generos))
	for _, g := range cat.Generos {
		rows = append(rows, []string{fmt.Sprintf("%d", g.ID), g.Clave, g.Etiqueta})
	}
	b.WriteString(RenderTableAligned([]string{"ID", "CLAVE", "ETIQUETA"}, rows, map[int]bool{0: true}))
	return b.String()
}
