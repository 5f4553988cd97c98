package runner

// Verdict is the single pass/fail outcome of one test run.
type Verdict int

const (
	// Failed is the default: anything short of a clean finish fails.
	Failed Verdict = iota
	// Passed means the session finished normally with zero errors,
	// warnings and assertion failures.
	Passed
)

// String returns the verdict name.
func (v Verdict) String() string {
	if v == Passed {
		return "PASSED"
	}
	return "FAILED"
}

// ExitCode maps the verdict to a process exit status.
func (v Verdict) ExitCode() int {
	if v == Passed {
		return 0
	}
	return 1
}
