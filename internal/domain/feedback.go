package domain

import "time"

// Feedback is the reporter's one-time rating of a resolved issue.
type Feedback struct {
	ID        string
	IssueID   string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ValidRating reports whether r is within the 1-5 rating scale.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
