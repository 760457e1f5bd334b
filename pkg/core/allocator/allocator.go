package allocator

import (
	"cmp"
	"slices"
)

// Trace is the raw record of one allocation run
type Trace struct {
	// Outcomes in processing (priority) order, one per candidate
	Outcomes []Outcome

	// enrolled holds candidate ids assigned to each course, in assignment order
	enrolled map[string][]string
}

// EnrolledInRun returns the candidates assigned to the course during the run
func (t *Trace) EnrolledInRun(courseID string) []string {
	return t.enrolled[courseID]
}

// RunInput contains everything needed for a single allocation run
type RunInput struct {
	Package    Package
	Candidates []Candidate

	// RankHorizon is the number of itemized rank buckets (DefaultRankHorizon if <= 0)
	RankHorizon int

	// DataQuality is carried through to the report unchanged
	DataQuality []DataQualityWarning
}

// Result is the outcome of a complete allocation run
type Result struct {
	PackageID string
	Trace     *Trace
	Report    *Report

	// Seats holds the seeded capacity per course
	Seats map[string]int
}

// Run validates the package, seeds a fresh ledger, allocates and aggregates.
// Nothing is allocated when a ConfigurationError is returned.
func Run(input RunInput) (*Result, error) {
	ledger, err := SeedLedger(input.Package)
	if err != nil {
		return nil, err
	}

	trace, err := Allocate(input.Candidates, ledger)
	if err != nil {
		return nil, err
	}

	report := Aggregate(trace, ledger, input.RankHorizon)
	report.DataQuality = input.DataQuality

	seats := make(map[string]int, len(input.Package.Courses))
	for _, courseID := range ledger.Courses() {
		seats[courseID] = ledger.Capacity(courseID)
	}

	return &Result{
		PackageID: input.Package.ID,
		Trace:     trace,
		Report:    report,
		Seats:     seats,
	}, nil
}

// SeedLedger builds a fresh ledger from the package's course capacities
func SeedLedger(pkg Package) (*CapacityLedger, error) {
	if len(pkg.Courses) == 0 {
		return nil, configErr(pkg.ID, ErrNoCourses)
	}

	ledger := NewCapacityLedger()
	seen := make(map[string]bool, len(pkg.Courses))
	for _, course := range pkg.Courses {
		if seen[course.ID] {
			return nil, configErr(course.ID, ErrDuplicateCourse)
		}
		seen[course.ID] = true

		if err := ledger.Seed(course.ID, course.Capacity); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

// Allocate runs priority-ordered serial dictatorship over the candidates.
//
// Candidates are ordered by PriorityScore descending; equal scores keep their
// input order. Each candidate in turn takes the first preferred course with a
// free seat. Decisions are never revisited.
//
// The ledger must be freshly seeded and is owned by this call until it returns.
func Allocate(candidates []Candidate, ledger *CapacityLedger) (*Trace, error) {
	if ledger == nil || !ledger.isFresh() {
		return nil, configErr("ledger", errStaleLedger)
	}

	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == "" {
			return nil, configErr("candidate", ErrEmptyID)
		}
		if seen[candidate.ID] {
			return nil, configErr(candidate.ID, ErrDuplicateCandidate)
		}
		seen[candidate.ID] = true
	}

	ordered := rankCandidates(candidates)

	trace := &Trace{
		Outcomes: make([]Outcome, 0, len(ordered)),
		enrolled: make(map[string][]string),
	}

	// Main allocation loop
	for _, candidate := range ordered {
		trace.Outcomes = append(trace.Outcomes, trace.decide(candidate, ledger))
	}

	return trace, nil
}

// decide resolves one candidate against the ledger
func (t *Trace) decide(candidate Candidate, ledger *CapacityLedger) Outcome {
	outcome := Outcome{
		CandidateID:   candidate.ID,
		PriorityScore: candidate.PriorityScore,
	}

	if len(candidate.Preferences) == 0 {
		outcome.Unallocated = &Unallocated{CandidateID: candidate.ID, Reason: ReasonNoPreferences}
		return outcome
	}

	for i, courseID := range candidate.Preferences {
		if !ledger.TryReserve(courseID) {
			continue
		}

		t.enrolled[courseID] = append(t.enrolled[courseID], candidate.ID)
		outcome.Allocated = &Allocated{
			CandidateID: candidate.ID,
			CourseID:    courseID,
			Rank:        i + 1,
			RawRank:     candidate.RawRank(i),
		}
		return outcome
	}

	outcome.Unallocated = &Unallocated{CandidateID: candidate.ID, Reason: ReasonAllPreferredCoursesFull}
	return outcome
}

// rankCandidates returns a copy of the candidates sorted by priority, highest first.
// The sort is stable so the first-seen candidate wins a tie.
func rankCandidates(candidates []Candidate) []Candidate {
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b Candidate) int {
		return cmp.Compare(b.PriorityScore, a.PriorityScore)
	})
	return ordered
}
