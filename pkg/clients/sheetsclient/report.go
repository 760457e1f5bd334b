package sheetsclient

import (
	"fmt"
	"time"
)

// CourseReportRow is one course line of a published allocation report
type CourseReportRow struct {
	Code      string
	Name      string
	Capacity  int
	Enrolled  int
	Remaining int

	// Buckets[i] counts students placed at preference rank i+1
	Buckets []int
	Other   int
}

// StudentReportRow is one student line of a published allocation report.
// CourseCode is empty and Reason is set for unallocated students.
type StudentReportRow struct {
	StudentID  string
	Name       string
	CourseCode string
	Rank       int
	Reason     string
}

// AllocationReport is the content of one report tab
type AllocationReport struct {
	PackageName string
	RunID       string
	StartedAt   time.Time
	Horizon     int
	Courses     []CourseReportRow
	Students    []StudentReportRow
}

// PublishAllocationReport writes the report to a tab named after the package and run date.
// An existing tab with the same title is cleared and overwritten.
func (c *Client) PublishAllocationReport(spreadsheetID string, report *AllocationReport) error {
	tabTitle := reportTabTitle(report)

	existing, err := c.sheetID(spreadsheetID, tabTitle)
	if err != nil {
		return err
	}

	if existing == -1 {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	} else if err := c.ClearSheet(spreadsheetID, tabTitle); err != nil {
		return err
	}

	return c.WriteRows(spreadsheetID, tabTitle, BuildReportRows(report))
}

// reportTabTitle formats a title like "Optional Package A - 2026-02-15 14:05"
func reportTabTitle(report *AllocationReport) string {
	return fmt.Sprintf("%s - %s", report.PackageName, report.StartedAt.UTC().Format("2006-01-02 15:04"))
}

// BuildReportRows lays out the report: a run header, the course table, a blank row,
// then the student table
func BuildReportRows(report *AllocationReport) [][]interface{} {
	rows := [][]interface{}{
		{"Package", report.PackageName},
		{"Run", report.RunID},
		{"Started", report.StartedAt.UTC().Format(time.RFC3339)},
		{},
	}

	courseHeader := []interface{}{"Code", "Course", "Capacity", "Enrolled", "Remaining"}
	for i := 1; i <= report.Horizon; i++ {
		courseHeader = append(courseHeader, fmt.Sprintf("Rank %d", i))
	}
	courseHeader = append(courseHeader, "Other")
	rows = append(rows, courseHeader)

	for _, course := range report.Courses {
		row := []interface{}{course.Code, course.Name, course.Capacity, course.Enrolled, course.Remaining}
		for i := 0; i < report.Horizon; i++ {
			count := 0
			if i < len(course.Buckets) {
				count = course.Buckets[i]
			}
			row = append(row, count)
		}
		row = append(row, course.Other)
		rows = append(rows, row)
	}

	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Student ID", "Name", "Course", "Rank", "Reason"})

	for _, student := range report.Students {
		var rank interface{} = ""
		if student.Rank > 0 {
			rank = student.Rank
		}
		rows = append(rows, []interface{}{student.StudentID, student.Name, student.CourseCode, rank, student.Reason})
	}

	return rows
}
