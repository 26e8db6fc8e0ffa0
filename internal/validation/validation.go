// Package validation implements the request validation pipeline: a registry of
// payload validators, a field rule engine, and an HTTP gate that rejects
// invalid payloads before the handler body runs.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RouteParams exposes read-only route parameters to context-dependent rules.
type RouteParams map[string]string

// Get returns the named route parameter, or empty if absent.
func (p RouteParams) Get(name string) string { return p[name] }

// Env carries the ambient request context a rule may consult. It is passed
// explicitly into every rule evaluation so a rule's dependencies stay visible.
type Env struct {
	Route RouteParams
}

// Rule checks one field value. A non-empty message reports a violation; a
// non-nil error reports an evaluation fault (storage unreachable and the
// like), which is never surfaced as a validation message.
type Rule func(ctx context.Context, env Env) (msg string, err error)

// Field groups the ordered rules declared for one payload field.
type Field struct {
	Name  string
	Rules []Rule
}

// Payload is a request body that can be matched to a registered validator.
type Payload interface {
	PayloadKind() string
}

// Validator checks payloads of exactly one kind.
type Validator interface {
	Kind() string
	Validate(ctx context.Context, env Env, payload Payload) (*Result, error)
}

// Result is an ordered mapping from field name to its accumulated violation
// messages. Insertion order equals rule declaration order, which keeps error
// output deterministic regardless of which rule goroutine finished first.
type Result struct {
	order    []string
	messages map[string][]string
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{messages: make(map[string][]string)}
}

// Add appends a violation message for a field.
func (r *Result) Add(field, msg string) {
	if _, ok := r.messages[field]; !ok {
		r.order = append(r.order, field)
	}
	r.messages[field] = append(r.messages[field], msg)
}

// Valid reports whether no violations were recorded.
func (r *Result) Valid() bool { return len(r.order) == 0 }

// Fields returns the violated field names in insertion order.
func (r *Result) Fields() []string { return r.order }

// Messages returns the violation messages recorded for a field.
func (r *Result) Messages(field string) []string { return r.messages[field] }

// Merge appends all of other's violations after r's own, preserving order.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for _, field := range other.order {
		for _, msg := range other.messages[field] {
			r.Add(field, msg)
		}
	}
}

// MarshalJSON emits the field map as a JSON object in insertion order.
// encoding/json sorts map keys, so the object is built by hand.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		msgs, err := json.Marshal(r.messages[field])
		if err != nil {
			return nil, err
		}
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Run evaluates every field's rules and merges the outcomes in declared field
// order. Independent fields run concurrently; within one field, rules run in
// declaration order and every rule runs even after an earlier one failed, so
// all violations for a field accumulate. The first evaluation fault cancels
// the remaining goroutines and aborts the whole run.
func Run(ctx context.Context, env Env, fields []Field) (*Result, error) {
	collected := make([][]string, len(fields))

	g, ctx := errgroup.WithContext(ctx)
	for i, field := range fields {
		g.Go(func() error {
			for _, rule := range field.Rules {
				if err := ctx.Err(); err != nil {
					return err
				}
				msg, err := rule(ctx, env)
				if err != nil {
					return fmt.Errorf("rule for field %q: %w", field.Name, err)
				}
				if msg != "" {
					collected[i] = append(collected[i], msg)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, field := range fields {
		for _, msg := range collected[i] {
			result.Add(field.Name, msg)
		}
	}
	return result, nil
}

// Bind adapts a typed field rule builder into a Validator. The builder runs
// per request against the decoded payload, so rules close over concrete field
// values rather than reflecting over them.
func Bind[T Payload](kind string, fields func(payload T) []Field) Validator {
	return binder[T]{kind: kind, fields: fields}
}

type binder[T Payload] struct {
	kind   string
	fields func(payload T) []Field
}

func (b binder[T]) Kind() string { return b.kind }

func (b binder[T]) Validate(ctx context.Context, env Env, payload Payload) (*Result, error) {
	typed, ok := payload.(T)
	if !ok {
		return nil, fmt.Errorf("validator %q: unexpected payload type %T", b.kind, payload)
	}
	return Run(ctx, env, b.fields(typed))
}
