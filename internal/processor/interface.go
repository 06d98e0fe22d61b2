package processor

import "context"

// UseCase processes one inbound pull-request event end to end. Safe for
// concurrent invocations: no cross-event state is held.
type UseCase interface {
	// ProcessEvent runs the event through validate → list files → filter →
	// summarize → persist and returns the terminal outcome. The returned
	// error is non-nil only for a Failed outcome.
	ProcessEvent(ctx context.Context, input ProcessEventInput) (ProcessEventOutput, error)
}
