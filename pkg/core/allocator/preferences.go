package allocator

import "strings"

// CourseIndex resolves preference entries to course ids within one package
type CourseIndex struct {
	ids    map[string]bool
	byCode map[string]string
}

// NewCourseIndex indexes the courses of a package by id and by auxiliary code
func NewCourseIndex(courses []Course) *CourseIndex {
	idx := &CourseIndex{
		ids:    make(map[string]bool, len(courses)),
		byCode: make(map[string]string, len(courses)),
	}
	for _, course := range courses {
		idx.ids[course.ID] = true
	}
	for _, course := range courses {
		code := normalizeCode(course.Code)
		if code == "" {
			continue
		}
		// First course wins when two courses share a code
		if _, taken := idx.byCode[code]; !taken {
			idx.byCode[code] = course.ID
		}
	}
	return idx
}

// Resolve maps a raw entry to a course id.
// Entries are tried as a course id first, then as a course code.
func (idx *CourseIndex) Resolve(entry string) (string, bool) {
	if idx == nil {
		return "", false
	}
	if idx.ids[entry] {
		return entry, true
	}
	trimmed := strings.TrimSpace(entry)
	if idx.ids[trimmed] {
		return trimmed, true
	}
	id, ok := idx.byCode[normalizeCode(trimmed)]
	return id, ok
}

// Contains reports whether id is a course of the package
func (idx *CourseIndex) Contains(id string) bool {
	return idx != nil && idx.ids[id]
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizedPreferences is the result of reducing a raw preference list
type NormalizedPreferences struct {
	// Courses holds resolved course ids in original order, first occurrence kept
	Courses []string

	// RawPositions[i] is the 1-based raw position that produced Courses[i]
	RawPositions []int

	// Dropped holds raw entries that resolved to no course
	Dropped []string

	// Duplicates counts entries that resolved to an already kept course
	Duplicates int
}

// HasWarnings reports whether any entry was dropped or deduplicated
func (np NormalizedPreferences) HasWarnings() bool {
	return len(np.Dropped) > 0 || np.Duplicates > 0
}

// NormalizePreferences keeps the entries of raw that resolve to courses in idx,
// preserving order and removing duplicates.
func NormalizePreferences(raw []string, idx *CourseIndex) NormalizedPreferences {
	result := NormalizedPreferences{
		Courses:      make([]string, 0, len(raw)),
		RawPositions: make([]int, 0, len(raw)),
	}

	seen := make(map[string]bool, len(raw))
	for i, entry := range raw {
		courseID, ok := idx.Resolve(entry)
		if !ok {
			result.Dropped = append(result.Dropped, entry)
			continue
		}
		if seen[courseID] {
			result.Duplicates++
			continue
		}
		seen[courseID] = true
		result.Courses = append(result.Courses, courseID)
		result.RawPositions = append(result.RawPositions, i+1)
	}

	return result
}
