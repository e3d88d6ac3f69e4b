package civic

import (
	"context"
	"time"
)

// Kind separates feedback from reported issues.
type Kind string

// Entry kinds.
const (
	KindFeedback Kind = "feedback"
	KindIssue    Kind = "issue"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindFeedback || k == KindIssue
}

// Entry is one piece of feedback or one reported issue.
type Entry struct {
	ID        string
	Kind      Kind
	Username  string
	Body      string
	CreatedAt time.Time
}

// String renders "username: body", the form used in reports.
func (e Entry) String() string {
	return e.Username + ": " + e.Body
}

// Journal records community entries outside the process. It is write-only
// from the platform's point of view: what a Community narrates and
// reports always comes from its own entries.
type Journal interface {
	Append(ctx context.Context, e Entry) error
}
