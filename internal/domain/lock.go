package domain

import "time"

// LockVersion is the schema version of persisted soft locks.
const LockVersion = 1

// ActiveLock describes an unexpired soft lock.
type ActiveLock struct {
	SurveyID  string
	CreatedAt time.Time
	Remaining time.Duration
}
