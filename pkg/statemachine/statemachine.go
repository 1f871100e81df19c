package statemachine

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Guard decides at fire time whether a declared transition may proceed.
type Guard[S comparable] func(ctx context.Context, from, to S, data any) bool

// Action runs while a transition is fired. An error aborts the transition.
type Action[S comparable] func(ctx context.Context, from, to S, data any) error

// Transition is one allowed edge of the machine.
type Transition[S comparable] struct {
	From    S
	To      S
	Guards  []Guard[S] // all must pass
	Actions []Action[S]
}

// Machine is a table of allowed state changes. It holds no current state:
// callers pass the persisted state of their entity, which keeps one Machine
// safe to share across every entity of a kind.
type Machine[S comparable] struct {
	mu          sync.RWMutex
	transitions map[S][]Transition[S]
}

// New builds a machine from opts.
func New[S comparable](opts ...Option[S]) (*Machine[S], error) {
	m := &Machine[S]{transitions: make(map[S][]Transition[S])}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on an invalid declaration.
func MustNew[S comparable](opts ...Option[S]) *Machine[S] {
	m, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Add declares a transition.
func (m *Machine[S]) Add(t Transition[S]) error {
	if t.From == t.To {
		return fmt.Errorf("%w: %v", ErrSelfTransition, t.From)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.transitions[t.From] {
		if existing.To == t.To {
			return fmt.Errorf("%w: %v -> %v", ErrDuplicateTransition, t.From, t.To)
		}
	}
	m.transitions[t.From] = append(m.transitions[t.From], t)
	return nil
}

// Targets lists the states reachable from from, in declaration order.
func (m *Machine[S]) Targets(from S) []S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]S, 0, len(m.transitions[from]))
	for _, t := range m.transitions[from] {
		out = append(out, t.To)
	}
	return out
}

// Terminal reports whether no transition leaves from.
func (m *Machine[S]) Terminal(from S) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transitions[from]) == 0
}

// Can reports whether Fire would pass the declaration and guard checks.
func (m *Machine[S]) Can(ctx context.Context, from, to S, data any) bool {
	t, ok := m.lookup(from, to)
	return ok && guardsPass(ctx, t, data)
}

// Fire checks that from -> to is declared and its guards pass, then runs
// its actions in order.
func (m *Machine[S]) Fire(ctx context.Context, from, to S, data any) error {
	t, ok := m.lookup(from, to)
	if !ok {
		return &NoTransitionError[S]{From: from, To: to}
	}
	if !guardsPass(ctx, t, data) {
		return &RejectedError[S]{From: from, To: to}
	}
	for _, action := range t.Actions {
		if err := action(ctx, from, to, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}
	return nil
}

func (m *Machine[S]) lookup(from, to S) (Transition[S], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.transitions[from], func(t Transition[S]) bool { return t.To == to })
	if i < 0 {
		return Transition[S]{}, false
	}
	return m.transitions[from][i], true
}

func guardsPass[S comparable](ctx context.Context, t Transition[S], data any) bool {
	for _, g := range t.Guards {
		if !g(ctx, t.From, t.To, data) {
			return false
		}
	}
	return true
}
