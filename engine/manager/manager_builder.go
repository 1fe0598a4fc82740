package manager

import "sync/atomic"

// BuilderOption configures optional properties of a manager at creation time.
type BuilderOption func(*manager)

// WithExitFlag substitutes an externally owned exit flag. Anything holding
// the flag can then request shutdown without a manager reference.
//
// Parameters:
//   - exit: the shared flag to use instead of an internal one
//
// Returns:
//   - BuilderOption: the option to pass to New
func WithExitFlag(exit *atomic.Bool) BuilderOption {
	return func(m *manager) {
		if exit != nil {
			m.exit = exit
		}
	}
}
