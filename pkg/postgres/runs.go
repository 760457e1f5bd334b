package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/optcourse/allocation-portal/pkg/db"
)

// GetLatestAllocationRun retrieves the most recent run for a package, or nil if none exists
func (d *DB) GetLatestAllocationRun(ctx context.Context, packageID string) (*db.AllocationRun, error) {
	var r db.AllocationRun
	err := d.pool.QueryRow(ctx, `
		SELECT id, package_id, requested_by, started_at,
		       allocated_count, unallocated_count, dropped_preference_count
		FROM allocation_run
		WHERE package_id = $1
		ORDER BY started_at DESC
		LIMIT 1
	`, packageID).Scan(&r.ID, &r.PackageID, &r.RequestedBy, &r.StartedAt,
		&r.AllocatedCount, &r.UnallocatedCount, &r.DroppedPreferenceCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest allocation run: %w", err)
	}

	r.StartedAt = r.StartedAt.UTC()
	return &r, nil
}

// GetEnrollments retrieves the enrollments created by a run
func (d *DB) GetEnrollments(ctx context.Context, runID string) ([]db.Enrollment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, package_id, course_id, student_id, rank, raw_rank
		FROM enrollment
		WHERE run_id = $1
		ORDER BY course_id, rank, student_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []db.Enrollment
	for rows.Next() {
		var e db.Enrollment
		if err := rows.Scan(&e.ID, &e.RunID, &e.PackageID, &e.CourseID, &e.StudentID, &e.Rank, &e.RawRank); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}

	return enrollments, nil
}

// GetUnallocated retrieves the students a run left without a course
func (d *DB) GetUnallocated(ctx context.Context, runID string) ([]db.UnallocatedRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, package_id, student_id, reason
		FROM unallocated
		WHERE run_id = $1
		ORDER BY student_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unallocated records: %w", err)
	}
	defer rows.Close()

	var records []db.UnallocatedRecord
	for rows.Next() {
		var u db.UnallocatedRecord
		if err := rows.Scan(&u.RunID, &u.PackageID, &u.StudentID, &u.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan unallocated record: %w", err)
		}
		records = append(records, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unallocated records: %w", err)
	}

	return records, nil
}

// GetRunSeats retrieves the seeded and remaining seats of every course in a run
func (d *DB) GetRunSeats(ctx context.Context, runID string) ([]db.RunCourseSeats, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, package_id, course_id, capacity, remaining
		FROM run_course_seats
		WHERE run_id = $1
		ORDER BY course_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run seats: %w", err)
	}
	defer rows.Close()

	var seats []db.RunCourseSeats
	for rows.Next() {
		var s db.RunCourseSeats
		if err := rows.Scan(&s.RunID, &s.PackageID, &s.CourseID, &s.Capacity, &s.Remaining); err != nil {
			return nil, fmt.Errorf("failed to scan run seats: %w", err)
		}
		seats = append(seats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run seats: %w", err)
	}

	return seats, nil
}

// SaveAllocationRun stores a run with its enrollments, unallocated records and seats,
// and stamps the package's allocated_datetime, in one transaction.
// Enrollments left by earlier runs over the same package are removed first.
func (d *DB) SaveAllocationRun(ctx context.Context, record db.AllocationRunRecord) error {
	run := record.Run

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM enrollment WHERE package_id = $1`, run.PackageID); err != nil {
		return fmt.Errorf("failed to clear previous enrollments: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO allocation_run (id, package_id, requested_by, started_at,
		                            allocated_count, unallocated_count, dropped_preference_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.PackageID, run.RequestedBy, run.StartedAt.UTC(),
		run.AllocatedCount, run.UnallocatedCount, run.DroppedPreferenceCount)
	if err != nil {
		return fmt.Errorf("failed to insert allocation run: %w", err)
	}

	if len(record.Enrollments) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"enrollment"},
			[]string{"id", "run_id", "package_id", "course_id", "student_id", "rank", "raw_rank"},
			pgx.CopyFromSlice(len(record.Enrollments), func(i int) ([]any, error) {
				e := record.Enrollments[i]
				return []any{e.ID, e.RunID, e.PackageID, e.CourseID, e.StudentID, e.Rank, e.RawRank}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to insert enrollments: %w", err)
		}
	}

	if len(record.Unallocated) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"unallocated"},
			[]string{"run_id", "package_id", "student_id", "reason"},
			pgx.CopyFromSlice(len(record.Unallocated), func(i int) ([]any, error) {
				u := record.Unallocated[i]
				return []any{u.RunID, u.PackageID, u.StudentID, u.Reason}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to insert unallocated records: %w", err)
		}
	}

	if len(record.Seats) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"run_course_seats"},
			[]string{"run_id", "package_id", "course_id", "capacity", "remaining"},
			pgx.CopyFromSlice(len(record.Seats), func(i int) ([]any, error) {
				s := record.Seats[i]
				return []any{s.RunID, s.PackageID, s.CourseID, s.Capacity, s.Remaining}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run seats: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE package SET allocated_datetime = $2 WHERE id = $1
	`, run.PackageID, run.StartedAt.UTC()); err != nil {
		return fmt.Errorf("failed to set package allocated_datetime: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
