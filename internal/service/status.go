package service

import "time"

// Display statuses derived from a task's completion flag and deadline.
const (
	StatusDone       = "Done"
	StatusOverdue    = "Overdue"
	StatusInProgress = "In progress"
)

// DeadlineLayout is the only accepted form-input format for deadlines.
const DeadlineLayout = "2006-01-02"

// DeriveStatus computes the display status of a task. Completion wins over
// any deadline state; a deadline on the current date is not overdue.
func DeriveStatus(completed bool, deadline *time.Time, now time.Time) (label string, overdue bool) {
	if completed {
		return StatusDone, false
	}
	if deadline != nil && dateOf(*deadline).Before(dateOf(now)) {
		return StatusOverdue, true
	}
	return StatusInProgress, false
}

// ParseDeadline converts raw form input to a calendar date. Empty input
// means no deadline; anything unparsable is ErrInvalidDeadline.
func ParseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DeadlineLayout, raw)
	if err != nil {
		return nil, ErrInvalidDeadline
	}
	return &parsed, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
