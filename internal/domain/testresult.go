package domain

import "time"

// TestStatus represents the overall outcome of a run or submit
type TestStatus string

const (
	TestStatusPassed      TestStatus = "PASSED"
	TestStatusWrongAnswer TestStatus = "WRONG_ANSWER"
	TestStatusError       TestStatus = "ERROR"

	// Carried through verbatim when the execution service reports them.
	TestStatusCompilationError TestStatus = "COMPILATION_ERROR"
	TestStatusRuntimeError     TestStatus = "RUNTIME_ERROR"
	TestStatusTimeout          TestStatus = "TIMEOUT"
)

// TestCaseResult represents the result of a single test case execution
type TestCaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	Input    string `json:"input,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message,omitempty"`
}

// TestResult is produced fresh by every run or submit and replaces the
// previous one.
type TestResult struct {
	Status     TestStatus
	Cases      []TestCaseResult
	Message    string
	ReceivedAt time.Time
}

// Passed reports whether the overall status is PASSED
func (r *TestResult) Passed() bool {
	return r != nil && r.Status == TestStatusPassed
}

// PassedCount returns the number of passing cases
func (r *TestResult) PassedCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, c := range r.Cases {
		if c.Passed {
			n++
		}
	}
	return n
}

// NewErrorResult builds the ERROR sentinel used when the call itself failed.
func NewErrorResult(msg string) *TestResult {
	return &TestResult{
		Status:     TestStatusError,
		Message:    msg,
		ReceivedAt: time.Now(),
	}
}
