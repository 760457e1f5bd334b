package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testIndex() *CourseIndex {
	return NewCourseIndex([]Course{
		{ID: "c-ai", Code: "AI101", Capacity: 2},
		{ID: "c-db", Code: "DB201", Capacity: 2},
		{ID: "c-net", Code: "", Capacity: 2},
	})
}

func TestNormalizePreferences_KeepsOrder(t *testing.T) {
	result := NormalizePreferences([]string{"c-db", "c-ai", "c-net"}, testIndex())

	assert.Equal(t, []string{"c-db", "c-ai", "c-net"}, result.Courses)
	assert.Equal(t, []int{1, 2, 3}, result.RawPositions)
	assert.Empty(t, result.Dropped)
	assert.Zero(t, result.Duplicates)
	assert.False(t, result.HasWarnings())
}

func TestNormalizePreferences_DropsUnknownEntries(t *testing.T) {
	result := NormalizePreferences([]string{"stale-id", "c-ai", "%63%2D%64%62"}, testIndex())

	assert.Equal(t, []string{"c-ai"}, result.Courses)
	assert.Equal(t, []int{2}, result.RawPositions)
	assert.Equal(t, []string{"stale-id", "%63%2D%64%62"}, result.Dropped)
	assert.True(t, result.HasWarnings())
}

func TestNormalizePreferences_RemovesDuplicatesKeepingFirst(t *testing.T) {
	result := NormalizePreferences([]string{"c-db", "c-ai", "c-db", "c-ai"}, testIndex())

	assert.Equal(t, []string{"c-db", "c-ai"}, result.Courses)
	assert.Equal(t, 2, result.Duplicates)
}

func TestNormalizePreferences_ResolvesCourseCodes(t *testing.T) {
	// Codes are the secondary decode: trimmed and case-insensitive
	result := NormalizePreferences([]string{" db201", "AI101", "c-db"}, testIndex())

	assert.Equal(t, []string{"c-db", "c-ai"}, result.Courses)
	assert.Equal(t, []int{1, 2}, result.RawPositions)
	assert.Equal(t, 1, result.Duplicates, "c-db by id repeats c-db by code")
}

func TestNormalizePreferences_IDTakesPrecedenceOverCode(t *testing.T) {
	idx := NewCourseIndex([]Course{
		{ID: "X", Code: "Y"},
		{ID: "Y", Code: "Z"},
	})

	result := NormalizePreferences([]string{"Y"}, idx)

	assert.Equal(t, []string{"Y"}, result.Courses)
}

func TestNormalizePreferences_Empty(t *testing.T) {
	result := NormalizePreferences(nil, testIndex())

	assert.Empty(t, result.Courses)
	assert.False(t, result.HasWarnings())
}

func TestNormalizePreferences_NilIndexDropsEverything(t *testing.T) {
	result := NormalizePreferences([]string{"c-ai"}, nil)

	assert.Empty(t, result.Courses)
	assert.Equal(t, []string{"c-ai"}, result.Dropped)
}

func TestCourseIndex_SharedCodeResolvesToFirstCourse(t *testing.T) {
	idx := NewCourseIndex([]Course{
		{ID: "a", Code: "SAME"},
		{ID: "b", Code: "same"},
	})

	id, ok := idx.Resolve("SAME")
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	assert.True(t, idx.Contains("b"))
	assert.False(t, idx.Contains("SAME"))
}
