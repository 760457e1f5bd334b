package allocator

// Report is the reduction of a trace handed back to the hosting service
type Report struct {
	Allocated   []Allocated
	Unallocated []Unallocated

	RemainingSeatsByCourse map[string]int
	RankStatistics         map[string]RankStatistics

	// Horizon is the number of itemized rank buckets per course
	Horizon int

	DataQuality []DataQualityWarning
}

// Aggregate reduces a trace and the final ledger state into a Report.
// Outcomes are not re-validated here.
func Aggregate(trace *Trace, ledger *CapacityLedger, horizon int) *Report {
	if horizon <= 0 {
		horizon = DefaultRankHorizon
	}

	report := &Report{
		Allocated:              []Allocated{},
		Unallocated:            []Unallocated{},
		RemainingSeatsByCourse: ledger.Snapshot(),
		RankStatistics:         make(map[string]RankStatistics),
		Horizon:                horizon,
	}

	// Every seeded course gets statistics, even when nobody was allocated to it
	for _, courseID := range ledger.Courses() {
		report.RankStatistics[courseID] = NewRankStatistics(horizon)
	}

	for _, outcome := range trace.Outcomes {
		switch {
		case outcome.Allocated != nil:
			allocated := *outcome.Allocated
			report.Allocated = append(report.Allocated, allocated)

			stats, ok := report.RankStatistics[allocated.CourseID]
			if !ok {
				stats = NewRankStatistics(horizon)
			}
			stats.Add(allocated.Rank)
			report.RankStatistics[allocated.CourseID] = stats
		case outcome.Unallocated != nil:
			report.Unallocated = append(report.Unallocated, *outcome.Unallocated)
		}
	}

	return report
}

// NewRankStatistics creates empty statistics with the given number of buckets
func NewRankStatistics(horizon int) RankStatistics {
	if horizon <= 0 {
		horizon = DefaultRankHorizon
	}
	return RankStatistics{Buckets: make([]int, horizon)}
}

// Add counts one candidate allocated at the given 1-based rank
func (rs *RankStatistics) Add(rank int) {
	if rank >= 1 && rank <= len(rs.Buckets) {
		rs.Buckets[rank-1]++
		return
	}
	rs.Other++
}

// DroppedPreferenceCount sums dropped entries across all warnings
func (r *Report) DroppedPreferenceCount() int {
	count := 0
	for _, warning := range r.DataQuality {
		count += len(warning.Dropped)
	}
	return count
}

// UnallocatedByReason counts unallocated candidates per reason
func (r *Report) UnallocatedByReason() map[UnallocatedReason]int {
	counts := make(map[UnallocatedReason]int)
	for _, u := range r.Unallocated {
		counts[u.Reason]++
	}
	return counts
}
