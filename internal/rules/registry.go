package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// ErrDuplicateRule rejects a second registration under an already
// taken rule ID.
var ErrDuplicateRule = errors.New("duplicate rule id")

// Registry is an explicit, ordered rule set. It is mutable only
// through Register and is safe for concurrent reads once populated.
// Registration order is the tie-break order the matcher applies per
// unit, so it is part of the output contract.
type Registry struct {
	rules []Rule
	index map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends a rule. IDs are case-insensitive and must be
// unique; a collision leaves the registry unchanged.
func (r *Registry) Register(rule Rule) error {
	id := strings.ToLower(strings.TrimSpace(rule.ID()))
	if id == "" {
		return errors.New("rule id must not be empty")
	}
	if _, ok := r.index[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, id)
	}
	r.index[id] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// All returns the rules in registration order.
func (r *Registry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

func (r *Registry) Get(id string) (Rule, bool) {
	idx, ok := r.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, false
	}
	return r.rules[idx], true
}

// ByCategory returns the subset of rules in one category, keeping
// registration order.
func (r *Registry) ByCategory(c ir.Category) []Rule {
	var out []Rule
	for _, rule := range r.rules {
		if rule.Category() == c {
			out = append(out, rule)
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.rules) }
