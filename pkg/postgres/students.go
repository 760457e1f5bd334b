package postgres

import (
	"context"
	"fmt"

	"github.com/optcourse/allocation-portal/pkg/db"
)

// GetStudents retrieves the students eligible for a package, in enrollment order
func (d *DB) GetStudents(ctx context.Context, packageID string) ([]db.Student, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT s.id, s.name, s.year_of_study,
		       s.year_one_average, s.year_two_average, s.general_average, s.fallback_average
		FROM student s
		JOIN package_student ps ON ps.student_id = s.id
		WHERE ps.package_id = $1
		ORDER BY ps.enrolled_at, s.id
	`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []db.Student
	for rows.Next() {
		var s db.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.YearOfStudy,
			&s.YearOneAverage, &s.YearTwoAverage, &s.GeneralAverage, &s.FallbackAverage); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// GetPreferences retrieves every preference row submitted for a package
func (d *DB) GetPreferences(ctx context.Context, packageID string) ([]db.Preference, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT student_id, package_id, position, value
		FROM preference
		WHERE package_id = $1
		ORDER BY student_id, position
	`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var preferences []db.Preference
	for rows.Next() {
		var p db.Preference
		if err := rows.Scan(&p.StudentID, &p.PackageID, &p.Position, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		preferences = append(preferences, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}

	return preferences, nil
}
