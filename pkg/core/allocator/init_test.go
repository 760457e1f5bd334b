package allocator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCandidates_BasicPreparation(t *testing.T) {
	idx := NewCourseIndex([]Course{
		{ID: "c1", Code: "ML"},
		{ID: "c2", Code: "CV"},
	})

	out, err := BuildCandidates(context.Background(), BuildCandidatesInput{
		Students: []StudentInput{
			{
				ID:             "s1",
				YearOfStudy:    YearTwo,
				Record:         AcademicRecord{YearOneAverage: avg(9.1), GeneralAverage: avg(5)},
				RawPreferences: []string{"c2", "ml"},
			},
			{
				ID:             "s2",
				YearOfStudy:    YearThree,
				Record:         AcademicRecord{YearTwoAverage: avg(8.4)},
				RawPreferences: []string{"bogus", "c1", "c1"},
			},
			{
				ID:          "s3",
				YearOfStudy: YearOne,
				Record:      AcademicRecord{FallbackAverage: avg(7)},
			},
		},
		Index: idx,
	})
	require.NoError(t, err)
	require.Len(t, out.Candidates, 3)

	assert.Equal(t, "s1", out.Candidates[0].ID)
	assert.Equal(t, 9.1, out.Candidates[0].PriorityScore)
	assert.Equal(t, []string{"c2", "c1"}, out.Candidates[0].Preferences)

	assert.Equal(t, "s2", out.Candidates[1].ID)
	assert.Equal(t, 8.4, out.Candidates[1].PriorityScore)
	assert.Equal(t, []string{"c1"}, out.Candidates[1].Preferences)
	assert.Equal(t, 2, out.Candidates[1].RawRank(0))

	assert.Equal(t, 7.0, out.Candidates[2].PriorityScore)
	assert.Empty(t, out.Candidates[2].Preferences)

	// Only s2 had entries dropped or deduplicated
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, DataQualityWarning{CandidateID: "s2", Dropped: []string{"bogus"}, Duplicates: 1}, out.Warnings[0])
}

func TestBuildCandidates_PreservesInputOrderUnderConcurrency(t *testing.T) {
	idx := NewCourseIndex([]Course{{ID: "c1"}})

	students := make([]StudentInput, 200)
	for i := range students {
		students[i] = StudentInput{
			ID:             fmt.Sprintf("s%03d", i),
			YearOfStudy:    YearOne,
			Record:         AcademicRecord{GeneralAverage: avg(float64(i % 3))},
			RawPreferences: []string{"c1"},
		}
	}

	out, err := BuildCandidates(context.Background(), BuildCandidatesInput{
		Students: students,
		Index:    idx,
		Workers:  8,
	})
	require.NoError(t, err)

	for i, candidate := range out.Candidates {
		assert.Equal(t, students[i].ID, candidate.ID)
	}
	assert.Empty(t, out.Warnings)
}

func TestBuildCandidates_DuplicateStudent(t *testing.T) {
	_, err := BuildCandidates(context.Background(), BuildCandidatesInput{
		Students: []StudentInput{{ID: "s1"}, {ID: "s1"}},
		Index:    NewCourseIndex(nil),
	})

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.ErrorIs(t, err, ErrDuplicateCandidate)
}

func TestBuildCandidates_EmptyStudentID(t *testing.T) {
	_, err := BuildCandidates(context.Background(), BuildCandidatesInput{
		Students: []StudentInput{{ID: ""}},
	})

	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestBuildCandidates_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildCandidates(ctx, BuildCandidatesInput{
		Students: []StudentInput{{ID: "s1"}},
		Index:    NewCourseIndex(nil),
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildCandidates_NoStudents(t *testing.T) {
	out, err := BuildCandidates(context.Background(), BuildCandidatesInput{Index: NewCourseIndex(nil)})

	require.NoError(t, err)
	assert.Empty(t, out.Candidates)
	assert.Empty(t, out.Warnings)
}
