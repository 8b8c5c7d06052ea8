package domain

// Centro is a school or workplace that respondents report about.
type Centro struct {
	ID     int64  `json:"id"`
	Tipo   string `json:"tipo"`
	Nombre string `json:"nombre"`
	Clave  string `json:"clave,omitempty"`
	Ciudad string `json:"ciudad,omitempty"`
	Estado string `json:"estado,omitempty"`
}

// Label returns the display label used in selectors.
func (c Centro) Label() string {
	label := c.Nombre
	if c.Clave != "" {
		label = c.Clave + " — " + label
	}
	if c.Ciudad != "" {
		label += " (" + c.Ciudad + ")"
	}
	return label
}

// Genero is one entry of the gender catalog.
type Genero struct {
	ID          int64   `json:"id"`
	Clave       string  `json:"clave"`
	Etiqueta    string  `json:"etiqueta"`
	Descripcion *string `json:"descripcion,omitempty"`
}
