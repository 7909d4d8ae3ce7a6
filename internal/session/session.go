// internal/session/session.go
//
// One editing session owns one report draft. Field mutations restart a
// debounce timer; after the quiet interval the draft is committed through
// the collection manager in a single write, so rapid edits coalesce and
// intermediate states never hit the store. Closing the session flushes any
// pending commit first, so navigating away loses nothing.

package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
)

// DefaultQuietInterval is how long the draft must stay untouched before an
// auto-save fires.
const DefaultQuietInterval = time.Second

// Committer accepts the finished draft. *collection.Manager satisfies it.
type Committer interface {
	Upsert(report.Report) error
}

// Controller manages the lifecycle of a single in-progress edit.
type Controller struct {
	committer Committer
	quiet     time.Duration
	logger    *zap.Logger
	onSaved   func(error)

	mu     sync.Mutex
	draft  report.Report
	dirty  bool
	timer  *time.Timer
	closed bool

	// inFlight tracks a commit the timer has started but not finished,
	// including its notifier callback.
	inFlight sync.WaitGroup
}

// Option customizes a Controller during construction.
type Option func(*Controller)

// WithReport opens the session over an existing report instead of a fresh
// one. The controller works on its own copy.
func WithReport(r report.Report) Option {
	return func(c *Controller) { c.draft = r.Clone() }
}

// WithQuietInterval overrides the debounce interval.
func WithQuietInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.quiet = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSaveNotifier registers a callback invoked after every commit attempt
// with the commit's outcome. The UI uses it to drive its saving indicator.
// The callback runs outside the controller's lock.
func WithSaveNotifier(fn func(error)) Option {
	return func(c *Controller) { c.onSaved = fn }
}

// New opens an editing session. Without WithReport it starts a fresh report:
// new id, created now, empty canonical disciplines, no revision date.
func New(committer Committer, opts ...Option) *Controller {
	c := &Controller{
		committer: committer,
		quiet:     DefaultQuietInterval,
		logger:    zap.NewNop(),
		draft:     report.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Report returns a copy of the current draft.
func (c *Controller) Report() report.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Pending reports whether an uncommitted edit is waiting on the timer.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// SetTitle updates the report title.
func (c *Controller) SetTitle(title string) {
	c.mutate(func(r *report.Report) { r.Title = title })
}

// SetContent replaces one discipline's content, leaving the other eight
// untouched.
func (c *Controller) SetContent(id, content string) {
	c.mutate(func(r *report.Report) { r.SetContent(id, content) })
}

// AppendContent appends a fragment to one discipline's content. Streamed
// assist output lands here chunk by chunk; fragments already applied stay
// applied even when the stream later fails.
func (c *Controller) AppendContent(id, fragment string) {
	if fragment == "" {
		return
	}
	c.mutate(func(r *report.Report) {
		if d := r.Discipline(id); d != nil {
			d.Content += fragment
		}
	})
}

// SetCompleted flips one discipline's completion flag. Content is kept.
func (c *Controller) SetCompleted(id string, completed bool) {
	c.mutate(func(r *report.Report) { r.SetCompleted(id, completed) })
}

// SetOKSample replaces the OK sample wholesale; nil clears it.
func (c *Controller) SetOKSample(f *report.FileAttachment) {
	c.mutate(func(r *report.Report) { r.OKSample = f })
}

// SetNOKSample replaces the NOK sample wholesale; nil clears it.
func (c *Controller) SetNOKSample(f *report.FileAttachment) {
	c.mutate(func(r *report.Report) { r.NOKSample = f })
}

// AddEvidence appends an empty evidence slot.
func (c *Controller) AddEvidence() {
	c.mutate(func(r *report.Report) { r.AddEvidence() })
}

// SetEvidence replaces the evidence at the given position.
func (c *Controller) SetEvidence(i int, f report.FileAttachment) {
	c.mutate(func(r *report.Report) { r.SetEvidence(i, f) })
}

// RemoveEvidence drops the evidence at the given position.
func (c *Controller) RemoveEvidence(i int) {
	c.mutate(func(r *report.Report) { r.RemoveEvidence(i) })
}

// mutate applies one edit and restarts the debounce timer.
func (c *Controller) mutate(apply func(*report.Report)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	apply(&c.draft)
	c.dirty = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.quiet, c.fire)
}

// fire runs when the quiet interval elapses with no further mutation.
func (c *Controller) fire() {
	if err := c.Flush(); err != nil {
		c.logger.Error("auto-save failed", zap.Error(err))
	}
}

// Flush commits the draft now when an edit is pending. The revision date is
// recomputed before the draft is handed to the committer. When the timer has
// already begun a commit, Flush waits for that commit and its notifier to
// finish before returning, so callers may tear down the notifier afterwards.
func (c *Controller) Flush() error {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		c.inFlight.Wait()
		return nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.dirty = false
	draft := c.draft.Clone()
	draft.NextRevisionDate = report.NextRevision(draft)
	c.draft.NextRevisionDate = draft.NextRevisionDate
	notify := c.onSaved
	c.inFlight.Add(1)
	c.mu.Unlock()
	defer c.inFlight.Done()

	err := c.committer.Upsert(draft)
	if err != nil {
		c.logger.Error("commit failed", zap.Error(err), zap.String("report", draft.ID))
	} else {
		c.logger.Debug("draft committed", zap.String("report", draft.ID))
	}
	if notify != nil {
		notify(err)
	}
	return err
}

// Close tears the session down, flushing any pending commit first. Further
// mutations are ignored.
func (c *Controller) Close() error {
	err := c.Flush()
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	return err
}
