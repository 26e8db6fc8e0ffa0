package validation

import "fmt"

// Registry maps payload kinds to validators. It is built once at startup from
// an enumerable list of validator implementations and never mutated afterwards,
// so lookups need no locking.
type Registry struct {
	validators map[string]Validator
}

// NewRegistry indexes the given validators by kind. Two validators claiming
// the same kind is a wiring bug and fails startup.
func NewRegistry(validators ...Validator) (*Registry, error) {
	index := make(map[string]Validator, len(validators))
	for _, v := range validators {
		if _, exists := index[v.Kind()]; exists {
			return nil, fmt.Errorf("duplicate validator for kind %q", v.Kind())
		}
		index[v.Kind()] = v
	}
	return &Registry{validators: index}, nil
}

// Resolve returns the validator registered for kind. A missing validator is a
// normal outcome (the payload requires no validation), not an error.
func (r *Registry) Resolve(kind string) (Validator, bool) {
	v, ok := r.validators[kind]
	return v, ok
}
