package domain

import "time"

// IssueUpdate is an append-only annotation on an issue, usually recording a
// status transition. Entries are removed only when the owning issue is.
type IssueUpdate struct {
	ID        string
	IssueID   string
	Text      string
	ActorID   string
	CreatedAt time.Time
}
