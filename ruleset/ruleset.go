// Package ruleset keeps named rules and decides which of them a record
// satisfies.
package ruleset

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jvitoroc/ruleast/eval"
	"github.com/jvitoroc/ruleast/rule"
)

type Rule struct {
	ID        uuid.UUID
	Name      string
	Condition string

	Expr *eval.Expression
}

// RuleSet is safe for concurrent use. Rules are evaluated in the order
// they were added.
type RuleSet struct {
	mu    sync.RWMutex
	rules []*Rule

	aliases  map[string]string
	defaults eval.Record
	logger   *slog.Logger
	metrics  *metrics
}

type Option func(*RuleSet)

// WithLogger sets the logger. A nil logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *RuleSet) {
		s.logger = logger
	}
}

// WithAliases makes a missing field take the value of another one, such as
// "salary" from "income". Aliases apply before defaults.
func WithAliases(aliases map[string]string) Option {
	return func(s *RuleSet) {
		s.aliases = aliases
	}
}

// WithDefaults sets field values used when an evaluated record lacks them.
func WithDefaults(defaults eval.Record) Option {
	return func(s *RuleSet) {
		s.defaults = defaults
	}
}

func New(opts ...Option) *RuleSet {
	s := &RuleSet{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	if s.metrics == nil {
		s.metrics = newMetrics(nil)
	}

	return s
}

// AddRule parses condition and appends it under name.
func (s *RuleSet) AddRule(name, condition string) (*Rule, error) {
	r, err := newRule("", name, condition)
	if err != nil {
		return nil, err
	}

	if err := s.add(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *RuleSet) add(r *Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasRule(r.Name) {
		return fmt.Errorf("%w: '%s'", ErrDuplicateRule, r.Name)
	}

	s.rules = append(s.rules, r)

	s.logger.Debug("rule added",
		slog.String("rule", r.Name),
		slog.String("id", r.ID.String()),
	)

	return nil
}

func (s *RuleSet) Rule(name string) *Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rules {
		if r.Name == name {
			return r
		}
	}

	return nil
}

func (s *RuleSet) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.rules, func(r *Rule) bool { return r.Name == name })
	if i < 0 {
		return false
	}

	s.rules = slices.Delete(s.rules, i, i+1)

	return true
}

// Rules returns the rules in evaluation order.
func (s *RuleSet) Rules() []*Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.rules)
}

func (s *RuleSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rules)
}

func (s *RuleSet) hasRule(name string) bool {
	for _, r := range s.rules {
		if r.Name == name {
			return true
		}
	}

	return false
}

// Combined joins copies of every rule tree under connective. An empty set
// gives a nil tree.
func (s *RuleSet) Combined(connective eval.OperatorType) (*eval.Expression, error) {
	rules := s.Rules()

	exprs := make([]*eval.Expression, len(rules))
	for i, r := range rules {
		exprs[i] = r.Expr.Clone()
	}

	return rule.CombineExpressions(exprs, connective)
}

// FirstMatch returns the first rule the record satisfies, or nil when none
// does. An evaluation error stops the search.
func (s *RuleSet) FirstMatch(ctx context.Context, record eval.Record) (*Rule, error) {
	values := record
	if len(s.aliases) > 0 {
		values = values.Alias(s.aliases)
	}
	if len(s.defaults) > 0 {
		values = values.Merge(s.defaults)
	}

	for _, r := range s.Rules() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := eval.Matches(r.Expr, values)
		s.metrics.recordEvaluation(ctx, r.Name, ok, err)
		if err != nil {
			s.logger.Warn("rule evaluation failed",
				slog.String("rule", r.Name),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("rule '%s': %w", r.Name, err)
		}

		if ok {
			s.logger.Debug("rule matched", slog.String("rule", r.Name))
			return r, nil
		}
	}

	return nil, nil
}

// Eligible reports whether any rule matches the record.
func (s *RuleSet) Eligible(ctx context.Context, record eval.Record) (bool, error) {
	r, err := s.FirstMatch(ctx, record)
	if err != nil {
		return false, err
	}

	return r != nil, nil
}
