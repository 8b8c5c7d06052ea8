package formatter

import (
	"errors"
	"testing"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/instrument"
	"github.com/mujeralerta/diagnostico/internal/intake"
	"github.com/stretchr/testify/assert"
)

func TestFormatShape_UndefinedGroups(t *testing.T) {
	out := stripANSI(FormatShape(instrument.Shape{Keys: []string{"name", "scales"}, GroupsKind: "undefined"}))
	assert.Contains(t, out, "name, scales")
	assert.Contains(t, out, "types_of_violence|typesOfViolence|types  undefined")
	assert.Contains(t, out, "preguntas   0")
}

func TestFormatShape_MissingScales(t *testing.T) {
	out := stripANSI(FormatShape(instrument.Shape{
		GroupsKey: "types", GroupsKind: "array (len=1)", Groups: 1, Questions: 2, Expected: 6,
		ScaleIDs: []string{"freq"}, MissingScales: []string{"grav"},
	}))
	assert.Contains(t, out, "types  array (len=1)")
	assert.Contains(t, out, "escalas     freq")
	assert.Contains(t, out, "escalas faltantes: grav")
}

func TestFormatValidation(t *testing.T) {
	assert.Contains(t, stripANSI(FormatValidation(nil)), "Instrumento válido.")

	out := stripANSI(FormatValidation([]error{errors.New("question P1: no cards"), errors.New("scale \"x\" has no options")}))
	assert.Contains(t, out, "2 problema(s)")
	assert.Contains(t, out, "  - question P1: no cards")
}

func TestFormatCatalogs(t *testing.T) {
	out := stripANSI(FormatCatalogs(intake.Catalogs{
		Centros: []domain.Centro{{ID: 3, Tipo: "preparatoria", Nombre: "Prepa 5", Clave: "P5"}},
		Generos: []domain.Genero{{ID: 1, Clave: "F", Etiqueta: "Femenino"}},
	}))
	assert.Contains(t, out, "P5 — Prepa 5")
	assert.Contains(t, out, "Femenino")

	empty := stripANSI(FormatCatalogs(intake.Catalogs{}))
	assert.Contains(t, empty, "Sin centros disponibles.")
	assert.Contains(t, empty, "Sin géneros disponibles.")
}
