package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/pkg/db"
)

// PackageSummary describes a package for listing
type PackageSummary struct {
	Package     db.Package
	CourseCount int
	Obligatory  int
}

// ListPackages returns every package with its course counts and last allocation time
func ListPackages(ctx context.Context, store db.PackageStore, logger *zap.Logger) ([]PackageSummary, error) {
	packages, err := store.GetPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch packages: %w", err)
	}

	logger.Debug("Fetched packages", zap.Int("count", len(packages)))

	summaries := make([]PackageSummary, 0, len(packages))
	for _, pkg := range packages {
		courses, err := store.GetCourses(ctx, pkg.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch courses for package %s: %w", pkg.ID, err)
		}

		summary := PackageSummary{Package: pkg, CourseCount: len(courses)}
		for _, course := range courses {
			if course.Obligatory {
				summary.Obligatory++
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
