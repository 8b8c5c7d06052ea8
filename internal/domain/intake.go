package domain

// IntakeForm holds the raw values captured before a survey starts.
// Values stay strings so validation can report exactly what was typed.
type IntakeForm struct {
	CentroID string
	GeneroID string
	Edad     string
	Email    string
}

// NewEncuesta is the creation payload sent to the backend.
type NewEncuesta struct {
	CentroID int64  `json:"centro_id"`
	GeneroID int64  `json:"genero_id"`
	Edad     int    `json:"edad"`
	Email    string `json:"email,omitempty"`
}

// RespuestasSubmission is the final submission payload. Comentario is nil
// when the respondent left it blank so the field is omitted on the wire.
type RespuestasSubmission struct {
	EncuestaID string      `json:"encuesta_id"`
	Respuestas []Respuesta `json:"respuestas"`
	Comentario *string     `json:"comentario,omitempty"`
}
