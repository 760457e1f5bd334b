package db

import "time"

// Package represents a package of optional courses open for one enrollment cycle
type Package struct {
	ID                string
	Name              string
	AllocatedDatetime string // RFC3339, empty if never allocated
}

// Course represents a course record belonging to a package
type Course struct {
	ID        string
	PackageID string
	Code      string
	Name      string

	// Capacity is nil for courses without a recorded limit
	Capacity   *int
	Obligatory bool
}

// Student represents an eligible student's academic record as stored.
// Averages are kept as entered by the secretariat and parsed at allocation time.
type Student struct {
	ID              string
	Name            string
	YearOfStudy     string
	YearOneAverage  string
	YearTwoAverage  string
	GeneralAverage  string
	FallbackAverage string
}

// Preference represents one entry of a student's ranked preference list for a package
type Preference struct {
	StudentID string
	PackageID string
	Position  int
	Value     string
}

// AllocationRun represents one automatic allocation over a package
type AllocationRun struct {
	ID                     string
	PackageID              string
	RequestedBy            string
	StartedAt              time.Time
	AllocatedCount         int
	UnallocatedCount       int
	DroppedPreferenceCount int
}

// Enrollment represents a student assigned to a course by an allocation run
type Enrollment struct {
	ID        string
	RunID     string
	PackageID string
	CourseID  string
	StudentID string
	Rank      int
	RawRank   int
}

// UnallocatedRecord represents a student left without a course by an allocation run
type UnallocatedRecord struct {
	RunID     string
	PackageID string
	StudentID string
	Reason    string
}

// RunCourseSeats records the seats a course was seeded with in a run and the seats left after it
type RunCourseSeats struct {
	RunID     string
	PackageID string
	CourseID  string
	Capacity  int
	Remaining int
}

// AllocationRunRecord is everything stored for one finished run
type AllocationRunRecord struct {
	Run         AllocationRun
	Enrollments []Enrollment
	Unallocated []UnallocatedRecord
	Seats       []RunCourseSeats
}
