package monitors

import (
	"context"
	"sync"
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Result is the outcome of one check.
type Result struct {
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	ResponseTime int64     `json:"response_time_ms"`
	CheckedAt    time.Time `json:"checked_at"`
}

type namedCheck struct {
	name  string
	check Check
}

// Runner runs a fixed set of named checks side by side, each bounded by
// timeout.
type Runner struct {
	checks  []namedCheck
	timeout time.Duration
}

func NewRunner(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

// Add registers check under name. Checks are registered at startup only.
func (r *Runner) Add(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.checks))
	for _, c := range r.checks {
		names = append(names, c.name)
	}
	return names
}

func (r *Runner) Run(ctx context.Context) map[string]Result {
	results := make(map[string]Result, len(r.checks))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, c := range r.checks {
		wg.Add(1)
		go func(c namedCheck) {
			defer wg.Done()
			result := r.execute(ctx, c.check)

			mu.Lock()
			results[c.name] = result
			mu.Unlock()
		}(c)
	}

	wg.Wait()
	return results
}

func (r *Runner) execute(ctx context.Context, check Check) Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := check(ctx)

	result := Result{
		Status:       StatusSuccess,
		ResponseTime: time.Since(start).Milliseconds(),
		CheckedAt:    time.Now(),
	}
	if err != nil {
		result.Status = StatusFailure
		result.Message = err.Error()
	}

	return result
}

// Healthy reports whether every result succeeded.
func Healthy(results map[string]Result) bool {
	for _, r := range results {
		if r.Status != StatusSuccess {
			return false
		}
	}
	return true
}
