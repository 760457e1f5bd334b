package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/internal/config"
	"github.com/optcourse/allocation-portal/pkg/clients/sheetsclient"
	"github.com/optcourse/allocation-portal/pkg/db"
)

// ErrNoReportSheet is returned when publishing without a configured report sheet
var ErrNoReportSheet = errors.New("reportSheetID is not configured")

// PublishReportStore defines the database operations needed to publish a report
type PublishReportStore interface {
	ViewAllocationStore
	GetStudents(ctx context.Context, packageID string) ([]db.Student, error)
}

// ReportPublisher writes an allocation report to a spreadsheet
type ReportPublisher interface {
	PublishAllocationReport(spreadsheetID string, report *sheetsclient.AllocationReport) error
}

// PublishAllocationReport pushes the latest run of a package to the configured report sheet
func PublishAllocationReport(
	ctx context.Context,
	store PublishReportStore,
	publisher ReportPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	packageID string,
) (*sheetsclient.AllocationReport, error) {
	if cfg.ReportSheetID == "" {
		return nil, ErrNoReportSheet
	}

	view, err := ViewAllocation(ctx, store, cfg, logger, packageID)
	if err != nil {
		return nil, err
	}

	students, err := store.GetStudents(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students: %w", err)
	}

	report := buildAllocationReport(view, students, cfg.RankHorizon)

	logger.Info("Publishing allocation report",
		zap.String("package_id", packageID),
		zap.String("run_id", view.Run.ID),
		zap.String("spreadsheet_id", cfg.ReportSheetID))

	if err := publisher.PublishAllocationReport(cfg.ReportSheetID, report); err != nil {
		return nil, fmt.Errorf("failed to publish allocation report: %w", err)
	}

	logger.Info("Allocation report published", zap.Int("students", len(report.Students)))

	return report, nil
}

// buildAllocationReport converts a stored run into report rows.
// Students are sorted by name, then id.
func buildAllocationReport(view *ViewAllocationResult, students []db.Student, horizon int) *sheetsclient.AllocationReport {
	report := &sheetsclient.AllocationReport{
		PackageName: view.Package.Name,
		RunID:       view.Run.ID,
		StartedAt:   view.Run.StartedAt,
		Horizon:     horizon,
		Courses:     make([]sheetsclient.CourseReportRow, 0, len(view.Courses)),
	}

	codes := make(map[string]string, len(view.Courses))
	for _, summary := range view.Courses {
		codes[summary.Course.ID] = summary.Course.Code
		report.Courses = append(report.Courses, sheetsclient.CourseReportRow{
			Code:      summary.Course.Code,
			Name:      summary.Course.Name,
			Capacity:  summary.Capacity,
			Enrolled:  summary.Enrolled,
			Remaining: summary.Remaining,
			Buckets:   summary.Stats.Buckets,
			Other:     summary.Stats.Other,
		})
	}

	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.ID] = student.Name
	}

	for _, enrollment := range view.Enrollments {
		report.Students = append(report.Students, sheetsclient.StudentReportRow{
			StudentID:  enrollment.StudentID,
			Name:       names[enrollment.StudentID],
			CourseCode: codes[enrollment.CourseID],
			Rank:       enrollment.Rank,
		})
	}
	for _, record := range view.Unallocated {
		report.Students = append(report.Students, sheetsclient.StudentReportRow{
			StudentID: record.StudentID,
			Name:      names[record.StudentID],
			Reason:    record.Reason,
		})
	}

	slices.SortStableFunc(report.Students, func(a, b sheetsclient.StudentReportRow) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.StudentID, b.StudentID))
	})

	return report
}
