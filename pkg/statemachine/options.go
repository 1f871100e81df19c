package statemachine

// Option configures a Machine during construction.
type Option[S comparable] func(*Machine[S]) error

// TransitionOption attaches guards and actions to one transition.
type TransitionOption[S comparable] func(*Transition[S])

// WithTransition declares from -> to.
func WithTransition[S comparable](from, to S, opts ...TransitionOption[S]) Option[S] {
	return func(m *Machine[S]) error {
		t := Transition[S]{From: from, To: to}
		for _, opt := range opts {
			opt(&t)
		}
		return m.Add(t)
	}
}

// WithTransitions declares from -> each of to, sharing opts.
func WithTransitions[S comparable](from S, to []S, opts ...TransitionOption[S]) Option[S] {
	return func(m *Machine[S]) error {
		for _, target := range to {
			if err := WithTransition(from, target, opts...)(m); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithGuard adds a guard.
func WithGuard[S comparable](g Guard[S]) TransitionOption[S] {
	return func(t *Transition[S]) {
		if g != nil {
			t.Guards = append(t.Guards, g)
		}
	}
}

// WithAction adds an action.
func WithAction[S comparable](a Action[S]) TransitionOption[S] {
	return func(t *Transition[S]) {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
}
