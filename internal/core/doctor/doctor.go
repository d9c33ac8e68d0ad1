// Package doctor runs the environment diagnostics behind the env command.
package doctor

import "context"

// Status is the outcome of one check item. It marshals as its string value.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

func (s Status) rank() int {
	switch s {
	case StatusFail:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}

// CheckItem is one line of a check's report.
type CheckItem struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func pass(label, detail string) CheckItem { return CheckItem{Label: label, Status: StatusPass, Detail: detail} }
func warn(label, detail string) CheckItem { return CheckItem{Label: label, Status: StatusWarn, Detail: detail} }
func fail(label, detail string) CheckItem { return CheckItem{Label: label, Status: StatusFail, Detail: detail} }

// Result groups the items of one check.
type Result struct {
	Name   string      `json:"name"`
	Status Status      `json:"status"`
	Items  []CheckItem `json:"items"`
}

// Check is a single diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs checks in order and stamps each result with its worst item
// status. A check with no items passes.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		if ctx.Err() != nil {
			break
		}
		r := check.Run(ctx)
		if r.Name == "" {
			r.Name = check.Name()
		}
		r.Status = StatusPass
		for _, item := range r.Items {
			if item.Status.rank() > r.Status.rank() {
				r.Status = item.Status
			}
		}
		results = append(results, r)
	}
	return results
}

// Summary counts items by status across results.
func Summary(results []Result) (passed, warned, failed int) {
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				passed++
			case StatusWarn:
				warned++
			case StatusFail:
				failed++
			}
		}
	}
	return passed, warned, failed
}
