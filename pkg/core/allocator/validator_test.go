package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResult(t *testing.T) *Result {
	t.Helper()
	result, err := Run(RunInput{
		Package: Package{ID: "p", Courses: []Course{{ID: "A", Capacity: 1}, {ID: "B", Capacity: 2}}},
		Candidates: []Candidate{
			{ID: "s1", PriorityScore: 2, Preferences: []string{"A"}},
			{ID: "s2", PriorityScore: 1, Preferences: []string{"A", "B"}},
			{ID: "s3", PriorityScore: 0, Preferences: []string{"A"}},
		},
	})
	require.NoError(t, err)
	return result
}

func TestValidateResult_Valid(t *testing.T) {
	assert.Empty(t, ValidateResult(validResult(t)))
}

func TestValidateResult_Nil(t *testing.T) {
	errs := ValidateResult(nil)

	require.Len(t, errs, 1)
	assert.Equal(t, "result is incomplete", errs[0].Description)
}

func TestValidateResult_OverCapacity(t *testing.T) {
	result := validResult(t)
	result.Trace.Outcomes = append(result.Trace.Outcomes, Outcome{
		CandidateID: "intruder",
		Allocated:   &Allocated{CandidateID: "intruder", CourseID: "A", Rank: 1},
	})

	errs := ValidateResult(result)

	// Over capacity and remaining-seat mismatch for A
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, "A", e.CourseID)
	}
}

func TestValidateResult_DoubleDecision(t *testing.T) {
	result := validResult(t)
	result.Trace.Outcomes = append(result.Trace.Outcomes, Outcome{
		CandidateID: "s3",
		Unallocated: &Unallocated{CandidateID: "s3", Reason: ReasonNoPreferences},
	})

	errs := ValidateResult(result)

	require.Len(t, errs, 1)
	assert.Equal(t, "s3", errs[0].CandidateID)
	assert.Contains(t, errs[0].Description, "decided 2 times")
}

func TestValidateResult_OutcomeWithBothOrNeither(t *testing.T) {
	result := validResult(t)
	result.Trace.Outcomes[2].Allocated = &Allocated{CandidateID: "s3", CourseID: "B"}

	errs := ValidateResult(result)

	require.NotEmpty(t, errs)
	assert.Equal(t, "s3", errs[0].CandidateID)
}

func TestValidateResult_CourseOutsidePackage(t *testing.T) {
	result := validResult(t)
	result.Trace.Outcomes = append(result.Trace.Outcomes, Outcome{
		CandidateID: "s4",
		Allocated:   &Allocated{CandidateID: "s4", CourseID: "Z", Rank: 1},
	})

	errs := ValidateResult(result)

	require.Len(t, errs, 1)
	assert.Equal(t, "Z", errs[0].CourseID)
}
