// Package statemachine declares the allowed state changes of an entity whose
// state lives elsewhere, typically in a database document.
//
// A Machine is a table of transitions. Each transition may carry guards,
// which can veto it at fire time, and actions, which run side effects and
// abort the change by returning an error:
//
//	lifecycle := statemachine.MustNew(
//		statemachine.WithTransitions("Pending", []string{"Processing", "Cancelled"}),
//		statemachine.WithTransition("Processing", "Cancelled",
//			statemachine.WithAction(func(ctx context.Context, from, to string, data any) error {
//				return restock(ctx, data.(*Order))
//			})),
//	)
//
//	if err := lifecycle.Fire(ctx, prev.Status, next.Status, &next); err != nil {
//		// statemachine.IsNoTransition[string](err) for undeclared changes
//	}
//
// The Machine itself carries no current state, so one instance serves every
// entity of a kind and is safe for concurrent use.
package statemachine
