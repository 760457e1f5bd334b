package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/internal/config"
	"github.com/optcourse/allocation-portal/pkg/core/allocator"
	"github.com/optcourse/allocation-portal/pkg/db"
)

// Surface identifies who triggered an allocation run. Both surfaces run the same path.
type Surface string

const (
	SurfaceAdmin     Surface = "admin"
	SurfaceSecretary Surface = "secretary"
)

// ParseSurface maps a command line value onto a Surface
func ParseSurface(value string) (Surface, error) {
	switch Surface(value) {
	case SurfaceAdmin, SurfaceSecretary:
		return Surface(value), nil
	default:
		return "", fmt.Errorf("unknown surface %q (expected %q or %q)", value, SurfaceAdmin, SurfaceSecretary)
	}
}

// RunAllocationStore defines the database operations needed for an allocation run
type RunAllocationStore interface {
	GetPackage(ctx context.Context, packageID string) (*db.Package, error)
	GetCourses(ctx context.Context, packageID string) ([]db.Course, error)
	GetStudents(ctx context.Context, packageID string) ([]db.Student, error)
	GetPreferences(ctx context.Context, packageID string) ([]db.Preference, error)
	SaveAllocationRun(ctx context.Context, record db.AllocationRunRecord) error
}

// RunAllocationResult contains the outcome of an allocation run
type RunAllocationResult struct {
	Package     *db.Package
	Courses     []db.Course
	Run         db.AllocationRun
	Enrollments []db.Enrollment
	Unallocated []db.UnallocatedRecord
	Seats       []db.RunCourseSeats
	Result      *allocator.Result
	Saved       bool
}

// RunAllocation allocates the students of a package to its courses and stores the run.
//
// The run is refused before anything is reserved when the package is misconfigured.
// A finished run is re-checked with allocator.ValidateResult and is not stored if any
// invariant is broken. With dryRun the result is computed and returned but not stored.
func RunAllocation(
	ctx context.Context,
	store RunAllocationStore,
	cfg *config.Config,
	logger *zap.Logger,
	packageID string,
	surface Surface,
	dryRun bool,
) (*RunAllocationResult, error) {
	logger.Info("Starting allocation run",
		zap.String("package_id", packageID),
		zap.String("surface", string(surface)),
		zap.Bool("dry_run", dryRun))

	pkg, err := store.GetPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package: %w", err)
	}

	courses, err := store.GetCourses(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}
	logger.Debug("Fetched courses", zap.Int("count", len(courses)))

	students, err := store.GetStudents(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students: %w", err)
	}
	logger.Debug("Fetched students", zap.Int("count", len(students)))

	preferences, err := store.GetPreferences(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}

	allocPackage := buildAllocatorPackage(pkg.ID, courses, cfg)
	index := allocator.NewCourseIndex(allocPackage.Courses)

	prepared, err := allocator.BuildCandidates(ctx, allocator.BuildCandidatesInput{
		Students: buildStudentInputs(students, db.GroupPreferences(preferences)),
		Index:    index,
		Workers:  cfg.PreparationWorkers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare candidates: %w", err)
	}

	for _, warning := range prepared.Warnings {
		logger.Warn("Preference list altered during normalization",
			zap.String("student_id", warning.CandidateID),
			zap.Strings("dropped", warning.Dropped),
			zap.Int("duplicates", warning.Duplicates))
	}

	result, err := allocator.Run(allocator.RunInput{
		Package:     allocPackage,
		Candidates:  prepared.Candidates,
		RankHorizon: cfg.RankHorizon,
		DataQuality: prepared.Warnings,
	})
	if err != nil {
		if allocator.IsConfigurationError(err) {
			logger.Error("Allocation refused", zap.String("package_id", packageID), zap.Error(err))
		}
		return nil, fmt.Errorf("allocation failed: %w", err)
	}

	if issues := allocator.ValidateResult(result); len(issues) > 0 {
		for _, issue := range issues {
			logger.Error("Allocation result invariant broken",
				zap.String("course_id", issue.CourseID),
				zap.String("student_id", issue.CandidateID),
				zap.String("description", issue.Description))
		}
		return nil, fmt.Errorf("allocation result failed validation with %d issues", len(issues))
	}

	run := db.AllocationRun{
		ID:                     uuid.New().String(),
		PackageID:              pkg.ID,
		RequestedBy:            string(surface),
		StartedAt:              time.Now().UTC(),
		AllocatedCount:         len(result.Report.Allocated),
		UnallocatedCount:       len(result.Report.Unallocated),
		DroppedPreferenceCount: result.Report.DroppedPreferenceCount(),
	}
	enrollments := convertToDBEnrollments(run, result.Report.Allocated)
	unallocated := convertToDBUnallocated(run, result.Report.Unallocated)
	seats := convertToDBSeats(run, allocPackage.Courses, result)

	logger.Info("Allocation complete",
		zap.String("run_id", run.ID),
		zap.Int("allocated", run.AllocatedCount),
		zap.Int("unallocated", run.UnallocatedCount),
		zap.Int("dropped_preferences", run.DroppedPreferenceCount))

	output := &RunAllocationResult{
		Package:     pkg,
		Courses:     courses,
		Run:         run,
		Enrollments: enrollments,
		Unallocated: unallocated,
		Seats:       seats,
		Result:      result,
	}

	if dryRun {
		logger.Info("Dry run - allocation not saved")
		return output, nil
	}

	record := db.AllocationRunRecord{
		Run:         run,
		Enrollments: enrollments,
		Unallocated: unallocated,
		Seats:       seats,
	}
	if err := store.SaveAllocationRun(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save allocation run: %w", err)
	}

	output.Saved = true
	logger.Info("Allocation saved", zap.String("run_id", run.ID))

	return output, nil
}

// buildAllocatorPackage converts stored courses into the allocator's package,
// resolving each course's seat count
func buildAllocatorPackage(packageID string, courses []db.Course, cfg *config.Config) allocator.Package {
	pkg := allocator.Package{
		ID:      packageID,
		Courses: make([]allocator.Course, 0, len(courses)),
	}
	for _, course := range courses {
		pkg.Courses = append(pkg.Courses, allocator.Course{
			ID:       course.ID,
			Code:     course.Code,
			Capacity: courseCapacity(course, cfg),
		})
	}
	return pkg
}

// courseCapacity resolves the seats of a course.
// A configured override wins, then the obligatory sentinel, then the stored limit.
// A non-obligatory course without a stored limit has no seats.
func courseCapacity(course db.Course, cfg *config.Config) int {
	if capacity, ok := cfg.CapacityOverrideFor(course.ID); ok {
		return capacity
	}
	if course.Obligatory {
		return cfg.ObligatoryCapacity
	}
	if course.Capacity == nil {
		return 0
	}
	return *course.Capacity
}

// buildStudentInputs converts stored students into allocator inputs, keeping store order
func buildStudentInputs(students []db.Student, preferences map[string][]string) []allocator.StudentInput {
	inputs := make([]allocator.StudentInput, 0, len(students))
	for _, student := range students {
		inputs = append(inputs, allocator.StudentInput{
			ID:          student.ID,
			YearOfStudy: allocator.ParseYearOfStudy(student.YearOfStudy),
			Record: allocator.AcademicRecord{
				YearOneAverage:  allocator.ParseAverage(student.YearOneAverage),
				YearTwoAverage:  allocator.ParseAverage(student.YearTwoAverage),
				GeneralAverage:  allocator.ParseAverage(student.GeneralAverage),
				FallbackAverage: allocator.ParseAverage(student.FallbackAverage),
			},
			RawPreferences: preferences[student.ID],
		})
	}
	return inputs
}

func convertToDBEnrollments(run db.AllocationRun, allocated []allocator.Allocated) []db.Enrollment {
	enrollments := make([]db.Enrollment, 0, len(allocated))
	for _, a := range allocated {
		enrollments = append(enrollments, db.Enrollment{
			ID:        uuid.New().String(),
			RunID:     run.ID,
			PackageID: run.PackageID,
			CourseID:  a.CourseID,
			StudentID: a.CandidateID,
			Rank:      a.Rank,
			RawRank:   a.RawRank,
		})
	}
	return enrollments
}

func convertToDBUnallocated(run db.AllocationRun, unallocated []allocator.Unallocated) []db.UnallocatedRecord {
	records := make([]db.UnallocatedRecord, 0, len(unallocated))
	for _, u := range unallocated {
		records = append(records, db.UnallocatedRecord{
			RunID:     run.ID,
			PackageID: run.PackageID,
			StudentID: u.CandidateID,
			Reason:    string(u.Reason),
		})
	}
	return records
}

// convertToDBSeats records the seeded and remaining seats of every course, in course order
func convertToDBSeats(run db.AllocationRun, courses []allocator.Course, result *allocator.Result) []db.RunCourseSeats {
	seats := make([]db.RunCourseSeats, 0, len(courses))
	for _, course := range courses {
		seats = append(seats, db.RunCourseSeats{
			RunID:     run.ID,
			PackageID: run.PackageID,
			CourseID:  course.ID,
			Capacity:  result.Seats[course.ID],
			Remaining: result.Report.RemainingSeatsByCourse[course.ID],
		})
	}
	return seats
}
