package domain

import (
	"strings"
	"time"
)

// SnapshotVersion is the schema version of persisted drafts.
const SnapshotVersion = 1

// Snapshot is the persisted draft of one survey instance.
type Snapshot struct {
	Version   int
	UpdatedAt time.Time
	QIndex    int
	Comment   string
	Answers   Answers
}

// HasContent reports whether the draft is worth offering for resumption:
// any answer, a non-blank comment, or progress past the first step.
func (s Snapshot) HasContent() bool {
	return len(s.Answers) > 0 || strings.TrimSpace(s.Comment) != "" || s.QIndex > 0
}

// Draft pairs a snapshot with the survey it belongs to.
type Draft struct {
	SurveyID string
	Snapshot Snapshot
}
