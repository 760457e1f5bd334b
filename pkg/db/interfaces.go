package db

import "context"

// PackageStore defines the interface for package and course reads
type PackageStore interface {
	GetPackages(ctx context.Context) ([]Package, error)
	GetPackage(ctx context.Context, packageID string) (*Package, error)
	GetCourses(ctx context.Context, packageID string) ([]Course, error)
}

// RunStore defines the interface for reading stored allocation runs
type RunStore interface {
	GetLatestAllocationRun(ctx context.Context, packageID string) (*AllocationRun, error)
	GetEnrollments(ctx context.Context, runID string) ([]Enrollment, error)
	GetUnallocated(ctx context.Context, runID string) ([]UnallocatedRecord, error)
	GetRunSeats(ctx context.Context, runID string) ([]RunCourseSeats, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	PackageStore
	RunStore

	GetStudents(ctx context.Context, packageID string) ([]Student, error)
	GetPreferences(ctx context.Context, packageID string) ([]Preference, error)

	// SaveAllocationRun stores a run with its enrollments, unallocated records and seats
	// and stamps the package's allocated datetime, all atomically. Enrollments of any
	// earlier run over the same package are replaced.
	SaveAllocationRun(ctx context.Context, record AllocationRunRecord) error

	RunMigrations(ctx context.Context) error
}
