package escalation

import "context"

// Notifier alerts the roles above an employee when a policy limit is crossed.
type Notifier interface {
	// Escalate returns immediately. Delivery happens in the background and
	// never reports failure to the caller.
	Escalate(ctx context.Context, ev Event)

	// Wait blocks until every escalation started so far has finished.
	Wait()
}
