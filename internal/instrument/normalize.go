// Package instrument turns the backend's nested instrument payload into the
// linear question sequence the wizard walks.
//
// Every function here is total: unexpected shapes yield empty results, never
// errors, so that schema drift surfaces as "no questions" instead of a crash.
package instrument

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mujeralerta/diagnostico/internal/domain"
)

// GroupKeys are the top-level fields that have carried the violence-type
// groups across backend versions, in lookup order.
var GroupKeys = []string{"types_of_violence", "typesOfViolence", "types"}

var wrapperKeys = []string{"data", "instrumento"}

// Unwrap returns the instrument object, looking through a `data` or
// `instrumento` wrapper when one holds an object.
func Unwrap(raw map[string]any) map[string]any {
	for _, k := range wrapperKeys {
		if inner, ok := raw[k].(map[string]any); ok {
			return inner
		}
	}
	return raw
}

// ExtractViolenceTypeGroups returns the first group array found under
// GroupKeys, or nil. Keys holding anything but an array are skipped.
func ExtractViolenceTypeGroups(raw map[string]any) []any {
	for _, k := range GroupKeys {
		if groups, ok := raw[k].([]any); ok {
			return groups
		}
	}
	return nil
}

// ExtractScale looks up scaleID in the instrument's scales map.
func ExtractScale(raw map[string]any, scaleID string) (domain.Scale, bool) {
	scales, ok := raw["scales"].(map[string]any)
	if !ok {
		return domain.Scale{}, false
	}
	def, ok := scales[scaleID].(map[string]any)
	if !ok {
		return domain.Scale{}, false
	}
	rawOpts, ok := def["options"].([]any)
	if !ok {
		return domain.Scale{}, false
	}

	scale := domain.Scale{ID: scaleID, Type: str(def["type"])}
	scale.Min, _ = domain.ParseNumber(def["min"])
	scale.Max, _ = domain.ParseNumber(def["max"])
	scale.Options = make([]domain.LikertOption, 0, len(rawOpts))
	for _, o := range rawOpts {
		m, ok := o.(map[string]any)
		if !ok {
			continue
		}
		v, ok := domain.ParseNumber(m["value"])
		if !ok {
			continue
		}
		scale.Options = append(scale.Options, domain.LikertOption{Value: v, Label: str(m["label"])})
	}
	return scale, true
}

// FlattenQuestions orders groups and their questions by `order` and
// concatenates the valid questions into one sequence. Array position only
// breaks ties.
func FlattenQuestions(raw map[string]any) []domain.Question {
	groups := objects(ExtractViolenceTypeGroups(raw))
	sortByOrder(groups)

	var out []domain.Question
	for _, g := range groups {
		rawQuestions, _ := g["questions"].([]any)
		questions := objects(rawQuestions)
		sortByOrder(questions)
		label := str(g["label"])
		for _, q := range questions {
			if parsed, ok := parseQuestion(q, label); ok {
				out = append(out, parsed)
			}
		}
	}
	return out
}

// ExpectedResponses is the number of answers a complete submission carries.
func ExpectedResponses(raw map[string]any, questions []domain.Question) int {
	if scoring, ok := raw["scoring"].(map[string]any); ok {
		if n, ok := domain.ParseNumber(scoring["total_responses_expected"]); ok && n > 0 {
			return int(n)
		}
	}
	return len(questions) * domain.DimensionsPerQuestion
}

// Meta extracts the descriptive fields shown on the wizard header.
func Meta(raw map[string]any) domain.InstrumentMeta {
	meta := domain.InstrumentMeta{
		ID:           str(raw["instrument_id"]),
		Name:         str(raw["name"]),
		Subtitle:     str(raw["subtitle"]),
		Version:      str(raw["version"]),
		Instructions: str(raw["instructions"]),
	}
	dims, _ := raw["dimensions"].([]any)
	for _, d := range objects(dims) {
		key := str(d["key"])
		if key == "" {
			continue
		}
		meta.Dimensions = append(meta.Dimensions, domain.DimensionDef{
			Key:     domain.Dimension(key),
			Label:   str(d["label"]),
			ScaleID: str(d["scale_id"]),
		})
	}
	return meta
}

func parseQuestion(q map[string]any, groupLabel string) (domain.Question, bool) {
	id := strings.TrimSpace(str(q["question_id"]))
	stem := str(q["stem"])
	rawCards, ok := q["cards"].([]any)
	if id == "" || strings.TrimSpace(stem) == "" || !ok {
		return domain.Question{}, false
	}
	order, _ := domain.ParseNumber(q["order"])
	question := domain.Question{ID: id, Order: order, Stem: stem, GroupLabel: groupLabel}
	for _, c := range objects(rawCards) {
		dim := str(c["dimension"])
		if dim == "" {
			continue
		}
		required, _ := c["required"].(bool)
		question.Cards = append(question.Cards, domain.Card{
			Dimension: domain.Dimension(dim),
			Prompt:    str(c["prompt"]),
			ScaleID:   str(c["scale_id"]),
			Required:  required,
		})
	}
	return question, true
}

func sortByOrder(items []map[string]any) {
	sort.SliceStable(items, func(i, j int) bool {
		return orderOf(items[i]) < orderOf(items[j])
	})
}

func orderOf(m map[string]any) float64 {
	n, _ := domain.ParseNumber(m["order"])
	return n
}

func objects(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}
