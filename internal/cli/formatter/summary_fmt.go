package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mujeralerta/diagnostico/internal/domain"
)

var resumenDims = []domain.Dimension{
	domain.DimensionFrecuencia,
	domain.DimensionNormalidad,
	domain.DimensionGravedad,
}

// FormatResumen renders the per-dimension means and the violence-type
// matrix of a submitted survey.
func FormatResumen(r domain.Resumen) string {
	var b strings.Builder
	b.WriteString(Header("Resumen de la encuesta"))
	b.WriteString("\n")
	b.WriteString(Dim(r.EncuestaID))
	b.WriteString("\n\n")

	g := r.Global
	b.WriteString(RenderTableAligned(
		[]string{"FRECUENCIA", "NORMALIDAD", "GRAVEDAD", "TOTAL"},
		[][]string{{score(g.Frecuencia), score(g.Normalidad), score(g.Gravedad), Bold(score(g.Total))}},
		map[int]bool{0: true, 1: true, 2: true, 3: true},
	))

	if len(r.Matriz) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(Bold("Por tipo de violencia"))
	b.WriteString("\n")
	b.WriteString(formatMatriz(r.Matriz))
	return b.String()
}

type matrizRow struct {
	num    int32
	nombre string
	cells  map[string]float64
}

// formatMatriz pivots matrix cells into one row per violence type.
func formatMatriz(items []domain.MatrizItem) string {
	byTipo := map[int32]*matrizRow{}
	for _, it := range items {
		row, ok := byTipo[it.TipoNum]
		if !ok {
			row = &matrizRow{num: it.TipoNum, nombre: it.TipoNombre, cells: map[string]float64{}}
			byTipo[it.TipoNum] = row
		}
		row.cells[strings.ToLower(it.Dimension)] = it.Promedio
	}
	ordered := make([]*matrizRow, 0, len(byTipo))
	for _, r := range byTipo {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].num < ordered[j].num })

	headers := []string{"#", "TIPO"}
	right := map[int]bool{0: true}
	for i, d := range resumenDims {
		headers = append(headers, strings.ToUpper(string(d)))
		right[i+2] = true
	}
	rows := make([][]string, 0, len(ordered))
	for _, r := range ordered {
		row := []string{fmt.Sprintf("%d", r.num), r.nombre}
		for _, d := range resumenDims {
			v, ok := r.cells[string(d)]
			if !ok {
				row = append(row, Dim("--"))
				continue
			}
			row = append(row, score(v))
		}
		rows = append(rows, row)
	}
	return RenderTableAligned(headers, rows, right)
}

func score(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
