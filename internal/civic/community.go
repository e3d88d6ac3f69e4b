package civic

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/nerrad567/smartcity-core/internal/citizen"
)

// Community is the engagement platform where citizens leave feedback and
// report issues. Entries live with the platform; a Journal, when set,
// receives a copy of each one.
// All methods are safe for concurrent use.
type Community struct {
	out     Printer
	clock   clock.Clock
	journal Journal

	mu      sync.RWMutex
	entries []Entry
	logger  Logger
}

// CommunityOption configures a Community.
type CommunityOption func(*Community)

// WithCommunityClock sets the clock used to stamp entries.
func WithCommunityClock(c clock.Clock) CommunityOption {
	return func(cm *Community) {
		if c != nil {
			cm.clock = c
		}
	}
}

// WithJournal copies every entry to j.
func WithJournal(j Journal) CommunityOption {
	return func(cm *Community) {
		cm.journal = j
	}
}

// NewCommunity creates an empty platform. A nil out discards narration.
func NewCommunity(out Printer, opts ...CommunityOption) *Community {
	if out == nil {
		out = discard{}
	}
	c := &Community{out: out, clock: clock.New(), logger: noopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger sets the logger for suspicious entries and journal failures.
// A nil logger silences them.
func (c *Community) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Community) getLogger() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// CollectFeedback records feedback from user and narrates it.
func (c *Community) CollectFeedback(ctx context.Context, user citizen.User, text string) {
	c.add(ctx, KindFeedback, user, text)
	c.out.Printf("Feedback collected from %s: %s", user.Username, text)
}

// ReportIssue records an issue reported by user and narrates it.
func (c *Community) ReportIssue(ctx context.Context, user citizen.User, text string) {
	c.add(ctx, KindIssue, user, text)
	c.out.Printf("Issue reported by %s: %s", user.Username, text)
}

// add keeps every entry. Anonymous or blank entries are kept too and
// flagged at Warn. A journal failure is logged and does not drop the
// entry.
func (c *Community) add(ctx context.Context, kind Kind, user citizen.User, text string) {
	log := c.getLogger()
	if user.Username == "" {
		log.Warn("community entry without username", "kind", string(kind))
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("blank community entry", "kind", string(kind), "username", user.Username)
	}

	e := Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Username:  user.Username,
		Body:      text,
		CreatedAt: c.clock.Now().UTC(),
	}
	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()

	if c.journal == nil {
		return
	}
	if err := c.journal.Append(ctx, e); err != nil {
		log.Warn("community journal write failed",
			"kind", string(kind),
			"entry_id", e.ID,
			"error", err,
		)
	}
}

// Feedback returns collected feedback, oldest first.
func (c *Community) Feedback() []Entry {
	return c.list(KindFeedback)
}

// Issues returns reported issues, oldest first.
func (c *Community) Issues() []Entry {
	return c.list(KindIssue)
}

func (c *Community) list(kind Kind) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return slices.Clip(out)
}

// Report writes all feedback followed by all issues.
func (c *Community) Report(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Feedback and Reported Issues:"); err != nil {
		return err
	}
	for _, e := range c.Feedback() {
		if _, err := fmt.Fprintf(w, "Feedback: %s\n", e); err != nil {
			return err
		}
	}
	for _, e := range c.Issues() {
		if _, err := fmt.Fprintf(w, "Reported Issue: %s\n", e); err != nil {
			return err
		}
	}
	return nil
}
