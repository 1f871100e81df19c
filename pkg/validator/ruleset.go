package validator

import (
	"slices"
	"strings"
)

// RuleSet is a named, ordered collection of field rules for one operation.
type RuleSet struct {
	name   string
	fields []*FieldRule
}

// NewRuleSet builds a rule set. Field order is significant: it decides which
// error a request with several invalid fields reports first.
func NewRuleSet(name string, fields ...*FieldRule) RuleSet {
	if len(fields) == 0 {
		panic(ErrEmptyRuleSet)
	}
	return RuleSet{name: name, fields: fields}
}

func (s RuleSet) Name() string {
	return s.name
}

// Check evaluates every field rule and collects the outcome.
func (s RuleSet) Check(doc Document) Outcome {
	var out Outcome
	for _, f := range s.fields {
		out.Errors = append(out.Errors, f.evaluate(doc)...)
	}
	return out
}

// Validate is Check returning ValidationErrors as an error, or nil.
func (s RuleSet) Validate(doc Document) error {
	return s.Check(doc).Err()
}

// Partial returns the update variant: every field becomes optional unless it
// was declared with Always.
func (s RuleSet) Partial() RuleSet {
	fields := make([]*FieldRule, 0, len(s.fields))
	for _, f := range s.fields {
		c := f.clone()
		if !c.always {
			c.checks = slices.Insert(c.checks, 0, Check{Kind: KindOptional})
		}
		fields = append(fields, c)
	}
	return RuleSet{name: s.name + " (partial)", fields: fields}
}

// Fields returns the distinct top-level body fields, in declaration order.
func (s RuleSet) Fields() []string {
	var names []string
	for _, f := range s.fields {
		top, _, _ := strings.Cut(f.path, ".")
		if top == "*" || slices.Contains(names, top) {
			continue
		}
		names = append(names, top)
	}
	return names
}

// Outcome is the result of evaluating a rule set.
type Outcome struct {
	Errors ValidationErrors
}

// Valid reports whether no rule failed.
func (o Outcome) Valid() bool {
	return len(o.Errors) == 0
}

// First returns the error surfaced to clients.
func (o Outcome) First() (ValidationError, bool) {
	return o.Errors.First()
}

// Err returns the errors as an error value, or nil when valid.
func (o Outcome) Err() error {
	if o.Valid() {
		return nil
	}
	return o.Errors
}
