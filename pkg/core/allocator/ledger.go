package allocator

// CapacityLedger tracks total and remaining seats per course for one allocation run.
//
// A ledger belongs to exactly one run and is not safe for concurrent use.
type CapacityLedger struct {
	capacity  map[string]int
	remaining map[string]int

	// order keeps seeding order so snapshots and reports are deterministic
	order []string
}

// NewCapacityLedger creates an empty ledger
func NewCapacityLedger() *CapacityLedger {
	return &CapacityLedger{
		capacity:  make(map[string]int),
		remaining: make(map[string]int),
	}
}

// Seed sets the capacity of a course and resets its remaining seats.
// Returns a ConfigurationError for a negative capacity.
func (l *CapacityLedger) Seed(courseID string, capacity int) error {
	if courseID == "" {
		return configErr("course", ErrEmptyID)
	}
	if capacity < 0 {
		return configErr(courseID, ErrNegativeCapacity)
	}

	if _, exists := l.capacity[courseID]; !exists {
		l.order = append(l.order, courseID)
	}
	l.capacity[courseID] = capacity
	l.remaining[courseID] = capacity
	return nil
}

// TryReserve takes one seat in the course if any is free.
// Unknown courses have no seats.
func (l *CapacityLedger) TryReserve(courseID string) bool {
	if l.remaining[courseID] <= 0 {
		return false
	}
	l.remaining[courseID]--
	return true
}

// Remaining returns the current number of free seats in the course
func (l *CapacityLedger) Remaining(courseID string) int {
	return l.remaining[courseID]
}

// Capacity returns the seeded capacity of the course
func (l *CapacityLedger) Capacity(courseID string) int {
	return l.capacity[courseID]
}

// Reserved returns the number of seats taken in the course during the run
func (l *CapacityLedger) Reserved(courseID string) int {
	return l.capacity[courseID] - l.remaining[courseID]
}

// Courses returns the seeded course ids in seeding order
func (l *CapacityLedger) Courses() []string {
	courses := make([]string, len(l.order))
	copy(courses, l.order)
	return courses
}

// Snapshot returns a copy of the remaining seats per course
func (l *CapacityLedger) Snapshot() map[string]int {
	snapshot := make(map[string]int, len(l.remaining))
	for courseID, seats := range l.remaining {
		snapshot[courseID] = seats
	}
	return snapshot
}

// isFresh reports whether no seat has been reserved since seeding
func (l *CapacityLedger) isFresh() bool {
	for courseID, seats := range l.remaining {
		if seats != l.capacity[courseID] {
			return false
		}
	}
	return true
}
