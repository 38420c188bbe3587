package superfluid

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// PlanOption configures the Plan() operation.
type PlanOption func(*planConfig)

// MaxOperations is the default upper bound on operations in one batch.
const MaxOperations = 256

// planConfig holds configuration for the Plan() method.
type planConfig struct {
	maxOperations int
	allowValue    bool
}

// defaultPlanConfig returns the default plan configuration.
func defaultPlanConfig() *planConfig {
	return &planConfig{
		maxOperations: MaxOperations,
		allowValue:    false,
	}
}

// WithMaxOperations sets a maximum operation count for the batch.
// Default is 256 operations.
func WithMaxOperations(max int) PlanOption {
	return func(c *planConfig) {
		c.maxOperations = max
	}
}

// WithValueForwarding allows forward calls to carry native value.
// The compiled batch then reports the total value to send with batchCall.
func WithValueForwarding(enabled bool) PlanOption {
	return func(c *planConfig) {
		c.allowValue = enabled
	}
}

// WithUserData sets the user data attached to agreement calls added
// through the planner helpers. Default is empty.
func WithUserData(data []byte) PlannerOption {
	return func(p *Planner) {
		p.userData = append([]byte(nil), data...)
	}
}
