package allocator

// DefaultRankHorizon is the number of itemized rank buckets kept per course.
// Ranks beyond the horizon are folded into RankStatistics.Other.
const DefaultRankHorizon = 5

// YearOfStudy is a student's current year code
type YearOfStudy int

const (
	YearUnspecified YearOfStudy = iota
	YearOne
	YearTwo
	YearThree
)

// String returns the roman numeral used by the faculty records
func (y YearOfStudy) String() string {
	switch y {
	case YearOne:
		return "I"
	case YearTwo:
		return "II"
	case YearThree:
		return "III"
	default:
		return ""
	}
}

// AcademicRecord holds the per-year historical averages of one student.
// A nil field means the average is missing from the student's record.
type AcademicRecord struct {
	YearOneAverage  *float64
	YearTwoAverage  *float64
	GeneralAverage  *float64
	FallbackAverage *float64
}

// StudentInput is the raw snapshot of one eligible student, as supplied by the store
type StudentInput struct {
	ID          string
	YearOfStudy YearOfStudy
	Record      AcademicRecord

	// RawPreferences is the student's ordered preference list, highest first.
	// Entries may be course ids or course codes and may be stale.
	RawPreferences []string
}

// Candidate is a student prepared for one allocation run
type Candidate struct {
	ID            string
	PriorityScore float64

	// Preferences contains only course ids from the package, no duplicates,
	// highest preference first
	Preferences []string

	// rawPositions maps each entry of Preferences to its 1-based position
	// in the raw list. Nil when the candidate was built by hand.
	rawPositions []int
}

// RawRank returns the 1-based position of the normalized preference at index i
// within the raw preference list. Falls back to the normalized rank.
func (c Candidate) RawRank(i int) int {
	if i < len(c.rawPositions) {
		return c.rawPositions[i]
	}
	return i + 1
}

// Course is one course of the package being allocated
type Course struct {
	ID       string
	Code     string
	Capacity int
}

// Package is the scope of one allocation run
type Package struct {
	ID      string
	Courses []Course
}

// UnallocatedReason explains why a candidate received no course
type UnallocatedReason string

const (
	ReasonNoPreferences           UnallocatedReason = "NoPreferences"
	ReasonAllPreferredCoursesFull UnallocatedReason = "AllPreferredCoursesFull"
)

// Outcome is the decision for a single candidate.
// Exactly one of Allocated or Unallocated is set.
type Outcome struct {
	CandidateID   string
	PriorityScore float64

	Allocated   *Allocated
	Unallocated *Unallocated
}

// IsAllocated reports whether the candidate received a seat
func (o Outcome) IsAllocated() bool {
	return o.Allocated != nil
}

// Allocated records a successful seat reservation
type Allocated struct {
	CandidateID string
	CourseID    string

	// Rank is the 1-based position of CourseID in the normalized preference list
	Rank int

	// RawRank is the 1-based position of CourseID in the raw preference list
	RawRank int
}

// Unallocated records a candidate who ended the run without a seat
type Unallocated struct {
	CandidateID string
	Reason      UnallocatedReason
}

// RankStatistics counts allocated candidates per preference rank for one course
type RankStatistics struct {
	// Buckets[i] is the number of candidates allocated at rank i+1
	Buckets []int

	// Other counts candidates allocated beyond the rank horizon
	Other int
}

// Total returns the number of candidates counted in the statistics
func (rs RankStatistics) Total() int {
	total := rs.Other
	for _, n := range rs.Buckets {
		total += n
	}
	return total
}

// DataQualityWarning reports preference entries dropped during normalization
type DataQualityWarning struct {
	CandidateID string

	// Dropped lists raw entries that matched no course in the package
	Dropped []string

	// Duplicates counts repeated entries removed after the first occurrence
	Duplicates int
}
