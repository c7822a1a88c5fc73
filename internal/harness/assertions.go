package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s", i+1, event.Step, event.Op)
		if len(event.Events) > 0 {
			fmt.Fprintf(&buf, " %v", placements(event.Events))
		}
		fmt.Fprintln(&buf)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertResultCount:
		return assertResultCount(result, a)
	case AssertResultPlacements:
		return assertResultPlacements(result, a)
	case AssertRowCount:
		return assertRowCount(result, a)
	case AssertDiagnostics:
		return assertDiagnostics(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertResultCount checks how many events a query step returned.
func assertResultCount(result *Result, a Assertion) error {
	event, ok := result.step(a.Step)
	if !ok {
		return &AssertionError{
			Type:     AssertResultCount,
			Expected: fmt.Sprintf("step %q in trace", a.Step),
			Actual:   "step not executed",
			Trace:    result.Trace,
		}
	}

	if len(event.Events) != a.Count {
		return &AssertionError{
			Type:     AssertResultCount,
			Expected: fmt.Sprintf("step %q returns %d events", a.Step, a.Count),
			Actual:   fmt.Sprintf("%d events %v", len(event.Events), placements(event.Events)),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertResultPlacements checks the ordered placement ids of a query step.
func assertResultPlacements(result *Result, a Assertion) error {
	event, ok := result.step(a.Step)
	if !ok {
		return &AssertionError{
			Type:     AssertResultPlacements,
			Expected: fmt.Sprintf("step %q in trace", a.Step),
			Actual:   "step not executed",
			Trace:    result.Trace,
		}
	}

	got := placements(event.Events)
	if !slices.Equal(got, a.Placements) {
		return &AssertionError{
			Type:     AssertResultPlacements,
			Expected: fmt.Sprintf("step %q returns %v", a.Step, a.Placements),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertRowCount checks the final number of stored rows.
func assertRowCount(result *Result, a Assertion) error {
	if result.Rows != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows", a.Count),
			Actual:   fmt.Sprintf("%d rows", result.Rows),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertDiagnostics checks the number of reported defects, optionally
// filtered by reason.
func assertDiagnostics(result *Result, a Assertion) error {
	count := 0
	for _, reason := range result.Diagnostics {
		if a.Reason == "" || reason == a.Reason {
			count++
		}
	}

	if count != a.Count {
		expected := fmt.Sprintf("%d diagnostics", a.Count)
		if a.Reason != "" {
			expected = fmt.Sprintf("%d %q diagnostics", a.Count, a.Reason)
		}
		return &AssertionError{
			Type:     AssertDiagnostics,
			Expected: expected,
			Actual:   fmt.Sprintf("%d matching of %v", count, result.Diagnostics),
			Trace:    result.Trace,
		}
	}
	return nil
}

func placements(rows []TraceRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PlacementID)
	}
	return ids
}
