package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/optcourse/allocation-portal/pkg/db"
)

// ErrPackageNotFound is returned when a package id has no record
var ErrPackageNotFound = errors.New("package not found")

// GetPackages retrieves all package records
func (d *DB) GetPackages(ctx context.Context) ([]db.Package, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, allocated_datetime
		FROM package
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}
	defer rows.Close()

	var packages []db.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating packages: %w", err)
	}

	return packages, nil
}

// GetPackage retrieves a single package record
func (d *DB) GetPackage(ctx context.Context, packageID string) (*db.Package, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, name, allocated_datetime
		FROM package
		WHERE id = $1
	`, packageID)

	p, err := scanPackage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, packageID)
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func scanPackage(row pgx.Row) (db.Package, error) {
	var p db.Package
	var allocatedDatetime *time.Time
	if err := row.Scan(&p.ID, &p.Name, &allocatedDatetime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan package: %w", err)
	}
	if allocatedDatetime != nil {
		p.AllocatedDatetime = allocatedDatetime.UTC().Format(time.RFC3339)
	}
	return p, nil
}

// GetCourses retrieves the courses of a package in a stable order
func (d *DB) GetCourses(ctx context.Context, packageID string) ([]db.Course, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, package_id, code, name, capacity, obligatory
		FROM course
		WHERE package_id = $1
		ORDER BY id
	`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []db.Course
	for rows.Next() {
		var c db.Course
		if err := rows.Scan(&c.ID, &c.PackageID, &c.Code, &c.Name, &c.Capacity, &c.Obligatory); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}
