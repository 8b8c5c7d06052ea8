package domain

// ResumenGlobal holds the mean value per dimension for one survey.
type ResumenGlobal struct {
	Frecuencia float64 `json:"frecuencia"`
	Normalidad float64 `json:"normalidad"`
	Gravedad   float64 `json:"gravedad"`
	Total      float64 `json:"total"`
}

// MatrizItem is one cell of the violence-type x dimension matrix.
type MatrizItem struct {
	TipoNum    int32   `json:"tipo_num"`
	TipoNombre string  `json:"tipo_nombre"`
	Dimension  string  `json:"dimension"`
	Promedio   float64 `json:"promedio"`
}

// Resumen is the per-survey summary returned after submission.
type Resumen struct {
	EncuestaID string        `json:"encuesta_id"`
	Global     ResumenGlobal `json:"global"`
	Matriz     []MatrizItem  `json:"matriz"`
}
