package instrument

import (
	"fmt"
	"sort"

	"github.com/mujeralerta/diagnostico/internal/domain"
)

// Shape summarizes an instrument payload for the "loaded but no questions"
// diagnostic.
type Shape struct {
	Keys          []string
	GroupsKey     string
	GroupsKind    string
	Groups        int
	Questions     int
	Expected      int
	ScaleIDs      []string
	MissingScales []string
}

// Describe reports the top-level keys and what was found where the groups
// should be.
func Describe(raw map[string]any) Shape {
	inst := Unwrap(raw)
	shape := Shape{Keys: sortedKeys(inst), GroupsKind: "undefined"}

	for _, k := range GroupKeys {
		if v, ok := inst[k]; ok {
			shape.GroupsKey = k
			shape.GroupsKind = kindOf(v)
			break
		}
	}
	groups := ExtractViolenceTypeGroups(inst)
	shape.Groups = len(groups)

	questions := FlattenQuestions(inst)
	shape.Questions = len(questions)
	shape.Expected = ExpectedResponses(inst, questions)

	if scales, ok := inst["scales"].(map[string]any); ok {
		shape.ScaleIDs = sortedKeys(scales)
	}
	shape.MissingScales = missingScales(inst, questions)
	return shape
}

func missingScales(inst map[string]any, questions []domain.Question) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, q := range questions {
		for _, c := range q.Cards {
			if c.ScaleID == "" || seen[c.ScaleID] {
				continue
			}
			seen[c.ScaleID] = true
			if _, ok := ExtractScale(inst, c.ScaleID); !ok {
				missing = append(missing, c.ScaleID)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

func kindOf(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case []any:
		return fmt.Sprintf("array (len=%d)", len(t))
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
