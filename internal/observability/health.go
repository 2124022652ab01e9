package observability

import "context"

// ReadinessChecker reports whether the service is ready to do useful work.
// The analysis pipeline is ready once a run has completed; the sweep is
// ready once the historical record is loaded.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}
