package instrument

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mujeralerta/diagnostico/internal/testutil"
)

// Step order depends only on the order fields, never on array position.
func TestFlattenQuestions_StableUnderGroupPermutation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rotating groups keeps step order", prop.ForAll(
		func(n, shift int) bool {
			groups := make([]any, n)
			for i := 0; i < n; i++ {
				groups[i] = testutil.NewTestGroup(i+1, fmt.Sprintf("G%d", i+1),
					testutil.NewTestQuestion(fmt.Sprintf("P%d-b", i+1), 2),
					testutil.NewTestQuestion(fmt.Sprintf("P%d-a", i+1), 1),
				)
			}
			rotated := make([]any, n)
			for i := range groups {
				rotated[(i+shift)%n] = groups[i]
			}

			want := questionIDs(FlattenQuestions(testutil.NewTestInstrument(groups)))
			got := questionIDs(FlattenQuestions(testutil.NewTestInstrument(rotated)))
			if len(want) != 2*n || len(got) != len(want) {
				return false
			}
			for i := range want {
				if want[i] != got[i] {
					return false
				}
			}
			return want[0] == "P1-a"
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 11),
	))

	properties.Property("reversed pair yields lower order first", prop.ForAll(
		func(lo, gap int) bool {
			hi := lo + gap
			inst := testutil.NewTestInstrument([]any{
				testutil.NewTestGroup(hi, "hi", testutil.NewTestQuestion("HI", 1)),
				testutil.NewTestGroup(lo, "lo", testutil.NewTestQuestion("LO", 1)),
			})
			ids := questionIDs(FlattenQuestions(inst))
			return len(ids) == 2 && ids[0] == "LO" && ids[1] == "HI"
		},
		gen.IntRange(-100, 100),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t)
}
