package persistence

import (
	"context"

	"staffdesk/internal/platform/auditlog"
	"staffdesk/pkg/clock"
)

// AuthorFunc resolves the identity recorded in audit stamps for a commit.
type AuthorFunc func(ctx context.Context) string

// SystemAuthor is the default author for writes with no attributable caller.
// TODO: once the identity provider integration lands, the server's author hook
// will see a real actor on the context; until then every stamp reads "system".
func SystemAuthor(ctx context.Context) string { return "system" }

// AuditCommitter decorates a Committer with audit stamping. Every auditable
// record in the batch is stamped before the underlying commit runs, using one
// clock snapshot for the whole batch. If the commit fails the stamps are
// rolled back, so partially-stamped entities are never observable.
type AuditCommitter struct {
	next   Committer
	clock  clock.Clock
	author AuthorFunc
	trail  auditlog.Publisher
}

// AuditOption configures an AuditCommitter.
type AuditOption func(*AuditCommitter)

// WithClock sets the clock used for stamp timestamps.
func WithClock(c clock.Clock) AuditOption {
	return func(ac *AuditCommitter) {
		if c != nil {
			ac.clock = c
		}
	}
}

// WithAuthor sets the author resolution hook.
func WithAuthor(fn AuthorFunc) AuditOption {
	return func(ac *AuditCommitter) {
		if fn != nil {
			ac.author = fn
		}
	}
}

// WithTrail publishes an audit event per change after a successful commit.
func WithTrail(p auditlog.Publisher) AuditOption {
	return func(ac *AuditCommitter) {
		if p != nil {
			ac.trail = p
		}
	}
}

// NewAuditCommitter wraps next with audit stamping.
func NewAuditCommitter(next Committer, opts ...AuditOption) *AuditCommitter {
	ac := &AuditCommitter{
		next:   next,
		clock:  clock.System,
		author: SystemAuthor,
		trail:  auditlog.Noop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ac)
		}
	}
	return ac
}

// Commit stamps auditable records and delegates to the wrapped committer.
func (c *AuditCommitter) Commit(ctx context.Context, changes []Change) error {
	now := c.clock()
	author := c.author(ctx)

	type undo struct {
		fields *Fields
		prev   Fields
	}
	var undos []undo

	for _, change := range changes {
		auditable, ok := change.Record.(Auditable)
		if !ok {
			continue
		}
		fields := auditable.Audit()

		switch change.Op {
		case OpInsert:
			undos = append(undos, undo{fields, *fields})
			at, by := now, author
			fields.CreatedAt = &at
			fields.CreatedBy = &by
		case OpUpdate:
			undos = append(undos, undo{fields, *fields})
			at, by := now, author
			fields.ModifiedAt = &at
			fields.ModifiedBy = &by
		}
	}

	if err := c.next.Commit(ctx, changes); err != nil {
		for _, u := range undos {
			*u.fields = u.prev
		}
		return err
	}

	for _, change := range changes {
		c.trail.Publish(ctx, auditlog.Event{
			Entity:   change.Record.EntityKind(),
			EntityID: change.Record.EntityID().String(),
			Op:       change.Op.String(),
			Author:   author,
			At:       now,
		})
	}
	return nil
}
