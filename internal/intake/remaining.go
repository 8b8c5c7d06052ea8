package intake

import (
	"fmt"
	"time"
)

// FormatRemaining renders a lock's remaining time as "M min" or "H h M min",
// truncating to whole minutes.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h <= 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}
