package domain

import (
	"math"
	"strings"
)

// AnswerKey builds the composite key "questionID:dimension" under which a
// Likert value is stored.
func AnswerKey(questionID string, dim Dimension) string {
	return questionID + ":" + string(dim)
}

// SplitAnswerKey is the inverse of AnswerKey. Question identifiers may
// contain ':' so the split happens at the last separator.
func SplitAnswerKey(key string) (questionID string, dim Dimension, ok bool) {
	i := strings.LastIndex(key, ":")
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], Dimension(key[i+1:]), true
}

// Answers maps composite keys to Likert values.
type Answers map[string]float64

// Has reports whether key holds a finite number.
func (a Answers) Has(key string) bool {
	v, ok := a[key]
	return ok && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// QuestionComplete reports whether every card of q has an answer.
func (a Answers) QuestionComplete(q Question) bool {
	for _, c := range q.Cards {
		if !a.Has(AnswerKey(q.ID, c.Dimension)) {
			return false
		}
	}
	return true
}

// Respuesta is one submitted answer triple.
type Respuesta struct {
	PreguntaID string    `json:"pregunta_id"`
	Dimension  Dimension `json:"dimension"`
	Valor      float64   `json:"valor"`
}
