package allocator

import "fmt"

// ResultValidationError describes a broken invariant found in a finished run
type ResultValidationError struct {
	CourseID    string
	CandidateID string
	Description string
}

// ValidateResult re-checks the run invariants against the trace.
// An empty slice means the result is consistent:
//   - no course holds more candidates than its seeded capacity
//   - every candidate has exactly one outcome, allocated or unallocated
//   - remaining seats equal capacity minus allocated candidates
func ValidateResult(result *Result) []ResultValidationError {
	errors := []ResultValidationError{}
	if result == nil || result.Trace == nil || result.Report == nil {
		return append(errors, ResultValidationError{Description: "result is incomplete"})
	}

	// Count allocations per course from the outcomes
	allocatedPerCourse := make(map[string]int)
	decisions := make(map[string]int)
	for _, outcome := range result.Trace.Outcomes {
		decisions[outcome.CandidateID]++

		hasAllocated := outcome.Allocated != nil
		hasUnallocated := outcome.Unallocated != nil
		if hasAllocated == hasUnallocated {
			errors = append(errors, ResultValidationError{
				CandidateID: outcome.CandidateID,
				Description: "outcome must be exactly one of allocated or unallocated",
			})
			continue
		}
		if hasAllocated {
			allocatedPerCourse[outcome.Allocated.CourseID]++
		}
	}

	for candidateID, count := range decisions {
		if count != 1 {
			errors = append(errors, ResultValidationError{
				CandidateID: candidateID,
				Description: fmt.Sprintf("candidate decided %d times", count),
			})
		}
	}

	for courseID, count := range allocatedPerCourse {
		capacity, known := result.Seats[courseID]
		if !known {
			errors = append(errors, ResultValidationError{
				CourseID:    courseID,
				Description: "allocated to a course outside the package",
			})
			continue
		}
		if count > capacity {
			errors = append(errors, ResultValidationError{
				CourseID:    courseID,
				Description: fmt.Sprintf("%d candidates allocated, capacity is %d", count, capacity),
			})
		}
	}

	for courseID, capacity := range result.Seats {
		remaining := result.Report.RemainingSeatsByCourse[courseID]
		if remaining != capacity-allocatedPerCourse[courseID] {
			errors = append(errors, ResultValidationError{
				CourseID:    courseID,
				Description: fmt.Sprintf("remaining seats %d do not match capacity %d minus %d allocated", remaining, capacity, allocatedPerCourse[courseID]),
			})
		}
	}

	return errors
}
