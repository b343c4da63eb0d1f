package ratelimit

import "time"

// Operation classes recognized by the default policy table
const (
	ClassAuth  = "auth"
	ClassRead  = "read"
	ClassWrite = "write"
	ClassAI    = "ai"
)

// Policy pairs a request budget with the window it is measured over
type Policy struct {
	Requests int
	Window   time.Duration
}

// DefaultPolicies maps operation classes to their budgets. Authentication-
// sensitive operations get a low count over a long window; read-heavy list
// operations get a high count over a short one. The limiter itself is
// parameterized per call, so callers may substitute their own table.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		ClassAuth:  {Requests: 10, Window: 15 * time.Minute},
		ClassRead:  {Requests: 300, Window: time.Minute},
		ClassWrite: {Requests: 60, Window: time.Minute},
		ClassAI:    {Requests: 20, Window: time.Hour},
	}
}
