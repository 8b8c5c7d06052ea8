package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrStepIncomplete is returned by GoNext when the current question has
	// unanswered cards.
	ErrStepIncomplete = errors.New("current question is incomplete")

	// ErrSubmitInFlight is returned when Submit is called while another
	// submission is still running.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrNoQuestions is returned when the instrument yielded no questions.
	ErrNoQuestions = errors.New("instrument loaded but no questions detected")

	// ErrCommentTooLong is returned when the comment exceeds MaxCommentRunes.
	ErrCommentTooLong = errors.New("comment is too long")

	// ErrNotEditable is returned for edits while loading, submitting or done.
	ErrNotEditable = errors.New("wizard is not accepting changes")

	// ErrInvalidValue is returned for answers that are not finite numbers.
	ErrInvalidValue = errors.New("answer value must be a finite number")
)

// IncompleteError reports the first question Submit found unanswered.
// Submit moves the wizard to Index before returning it.
type IncompleteError struct {
	Index      int
	QuestionID string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("question %d (%s) has unanswered cards", e.Index+1, e.QuestionID)
}

// CountError is returned by Submit when every card is answered but the
// instrument expects more responses than it defines.
type CountError struct {
	Answered int
	Expected int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%d of %d expected responses answered", e.Answered, e.Expected)
}
