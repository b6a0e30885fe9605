package core

import "time"

// RetryPolicy bounds how often a failed task execution is reattempted.
//
// A task is attempted at most MaxRetries+1 times in total. Interval is the
// pause between consecutive attempts of the same task; it never delays the
// first attempt. The zero value means "one attempt, no pause".
//
// Policies are stored per session at creation time so different sessions can
// carry different retry budgets without cross-session interference.
type RetryPolicy struct {
	MaxRetries int           `json:"max_retries"`
	Interval   time.Duration `json:"interval"`
}

// MaxAttempts returns the total number of attempts the policy allows for a
// single task. Negative MaxRetries is treated as zero.
func (p RetryPolicy) MaxAttempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}
