package intake

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mujeralerta/diagnostico/internal/domain"
)

const (
	MinEdad = 15
	MaxEdad = 75
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// ValidationErrors maps form field names to a message for the respondent.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "invalid intake form: " + strings.Join(parts, "; ")
}

// ValidEmail reports whether email is blank or shaped like local@domain.tld.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email == "" || emailPattern.MatchString(email)
}

// Validate checks the form and converts it into a creation request.
func Validate(form domain.IntakeForm) (domain.NewEncuesta, error) {
	errs := ValidationErrors{}
	var req domain.NewEncuesta

	if id, ok := parseID(form.CentroID); ok {
		req.CentroID = id
	} else {
		errs["centro"] = "Selecciona un centro."
	}
	if id, ok := parseID(form.GeneroID); ok {
		req.GeneroID = id
	} else {
		errs["genero"] = "Selecciona una opción de género."
	}

	edad, err := strconv.Atoi(strings.TrimSpace(form.Edad))
	switch {
	case err != nil:
		errs["edad"] = "Escribe tu edad en números."
	case edad < MinEdad || edad > MaxEdad:
		errs["edad"] = "La edad debe estar entre 15 y 75 años."
	default:
		req.Edad = edad
	}

	email := strings.TrimSpace(form.Email)
	if !ValidEmail(email) {
		errs["email"] = "Correo inválido. Déjalo vacío o usa el formato nombre@dominio.com."
	} else {
		req.Email = email
	}

	if len(errs) > 0 {
		return domain.NewEncuesta{}, errs
	}
	return req, nil
}

func parseID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
