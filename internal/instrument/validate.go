package instrument

import "fmt"

// Validate checks a flattened instrument for problems the wizard would
// otherwise hit mid-session. Returns every problem found.
func Validate(raw map[string]any) []error {
	inst := Unwrap(raw)
	questions := FlattenQuestions(inst)
	var errs []error

	if len(questions) == 0 {
		errs = append(errs, fmt.Errorf("instrument has no valid questions"))
	}

	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		if ids[q.ID] {
			errs = append(errs, fmt.Errorf("question %s: duplicate question_id", q.ID))
		}
		ids[q.ID] = true

		if len(q.Cards) == 0 {
			errs = append(errs, fmt.Errorf("question %s: no cards", q.ID))
		}
		dims := make(map[string]bool, len(q.Cards))
		for _, c := range q.Cards {
			if dims[string(c.Dimension)] {
				errs = append(errs, fmt.Errorf("question %s: duplicate dimension %q", q.ID, c.Dimension))
			}
			dims[string(c.Dimension)] = true

			scale, ok := ExtractScale(inst, c.ScaleID)
			if !ok {
				errs = append(errs, fmt.Errorf("question %s: card %s references unknown scale %q", q.ID, c.Dimension, c.ScaleID))
				continue
			}
			if len(scale.Options) == 0 {
				errs = append(errs, fmt.Errorf("scale %q has no options", c.ScaleID))
			}
		}
	}
	return errs
}
