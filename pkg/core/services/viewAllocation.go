package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/internal/config"
	"github.com/optcourse/allocation-portal/pkg/core/allocator"
	"github.com/optcourse/allocation-portal/pkg/db"
)

// ViewAllocationStore defines the database operations needed to view a stored run
type ViewAllocationStore interface {
	db.PackageStore
	db.RunStore
}

// CourseSummary describes one course of a stored run
type CourseSummary struct {
	Course    db.Course
	Enrolled  int
	Capacity  int
	Remaining int
	Stats     allocator.RankStatistics
}

// ViewAllocationResult contains the latest stored run of a package with per-course statistics
type ViewAllocationResult struct {
	Package     *db.Package
	Run         *db.AllocationRun
	Courses     []CourseSummary
	Enrollments []db.Enrollment
	Unallocated []db.UnallocatedRecord
}

// ErrNoAllocationRun is returned when a package has never been allocated
var ErrNoAllocationRun = errors.New("package has no allocation run")

// ViewAllocation loads the latest run of a package and rebuilds its course statistics
// from the stored enrollments using the same rank bucketing as the allocator
func ViewAllocation(
	ctx context.Context,
	store ViewAllocationStore,
	cfg *config.Config,
	logger *zap.Logger,
	packageID string,
) (*ViewAllocationResult, error) {
	logger.Debug("Viewing allocation", zap.String("package_id", packageID))

	pkg, err := store.GetPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package: %w", err)
	}

	run, err := store.GetLatestAllocationRun(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest allocation run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAllocationRun, packageID)
	}

	courses, err := store.GetCourses(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	enrollments, err := store.GetEnrollments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}

	unallocated, err := store.GetUnallocated(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unallocated records: %w", err)
	}

	seats, err := store.GetRunSeats(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run seats: %w", err)
	}

	logger.Debug("Loaded allocation run",
		zap.String("run_id", run.ID),
		zap.Int("enrollments", len(enrollments)),
		zap.Int("unallocated", len(unallocated)))

	return &ViewAllocationResult{
		Package:     pkg,
		Run:         run,
		Courses:     summarizeCourses(courses, enrollments, seats, cfg.RankHorizon),
		Enrollments: enrollments,
		Unallocated: unallocated,
	}, nil
}

// summarizeCourses rebuilds per-course statistics in course order.
// Capacity and remaining seats come from what the run stored, so later capacity
// edits do not change a finished run. Courses the run did not seed report no seats.
func summarizeCourses(courses []db.Course, enrollments []db.Enrollment, seats []db.RunCourseSeats, horizon int) []CourseSummary {
	stored := make(map[string]db.RunCourseSeats, len(seats))
	for _, s := range seats {
		stored[s.CourseID] = s
	}

	byCourse := make(map[string]*CourseSummary, len(courses))
	summaries := make([]CourseSummary, len(courses))
	for i, course := range courses {
		summaries[i] = CourseSummary{
			Course:    course,
			Capacity:  stored[course.ID].Capacity,
			Remaining: stored[course.ID].Remaining,
			Stats:     allocator.NewRankStatistics(horizon),
		}
		byCourse[course.ID] = &summaries[i]
	}

	for _, enrollment := range enrollments {
		summary, ok := byCourse[enrollment.CourseID]
		if !ok {
			continue
		}
		summary.Enrolled++
		summary.Stats.Add(enrollment.Rank)
	}

	return summaries
}
