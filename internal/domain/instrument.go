package domain

// Dimension is the scored facet of a question card.
type Dimension string

const (
	DimensionFrecuencia Dimension = "frecuencia"
	DimensionNormalidad Dimension = "normalidad"
	DimensionGravedad   Dimension = "gravedad"
)

// DimensionsPerQuestion is the number of cards each question carries when
// the instrument does not declare an explicit expected total.
const DimensionsPerQuestion = 3

// LikertOption is one selectable point of a scale.
type LikertOption struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Scale is an ordered Likert scale referenced by cards.
type Scale struct {
	ID      string         `json:"-"`
	Type    string         `json:"type"`
	Min     float64        `json:"min"`
	Max     float64        `json:"max"`
	Options []LikertOption `json:"options"`
}

// HasValue reports whether v is one of the scale's selectable values.
func (s Scale) HasValue(v float64) bool {
	for _, o := range s.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Card asks about one dimension of a question.
type Card struct {
	Dimension Dimension `json:"dimension"`
	Prompt    string    `json:"prompt"`
	ScaleID   string    `json:"scale_id"`
	Required  bool      `json:"required"`
}

// Question is one wizard step after flattening.
type Question struct {
	ID    string  `json:"question_id"`
	Order float64 `json:"order"`
	Stem  string  `json:"stem"`
	Cards []Card  `json:"cards"`
	// GroupLabel is the violence-type label of the group the question came from.
	GroupLabel string `json:"-"`
}

// DimensionDef is an instrument-level dimension declaration.
type DimensionDef struct {
	Key     Dimension `json:"key"`
	Label   string    `json:"label"`
	ScaleID string    `json:"scale_id"`
}

// InstrumentMeta holds the descriptive fields of an instrument.
type InstrumentMeta struct {
	ID           string
	Name         string
	Subtitle     string
	Version      string
	Instructions string
	Dimensions   []DimensionDef
}
