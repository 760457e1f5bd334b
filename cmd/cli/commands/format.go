package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/optcourse/allocation-portal/pkg/core/allocator"
	"github.com/optcourse/allocation-portal/pkg/db"
)

// courseFigures returns capacity, remaining seats and rank statistics for a course
type courseFigures func(courseID string) (int, int, allocator.RankStatistics)

func printCourseTable(courses []db.Course, figures courseFigures) {
	fmt.Printf("%-10s %-32s %8s %9s  %s\n", "Code", "Course", "Capacity", "Remaining", "Ranks")
	for _, course := range courses {
		capacity, remaining, stats := figures(course.ID)
		fmt.Printf("%-10s %-32s %8d %9d  %s\n",
			course.Code,
			truncate(course.Name, 32),
			capacity,
			remaining,
			formatRankStatistics(stats))
	}
}

// formatRankStatistics renders buckets as "1:3 2:1 3:0 other:0"
func formatRankStatistics(stats allocator.RankStatistics) string {
	parts := make([]string, 0, len(stats.Buckets)+1)
	for i, count := range stats.Buckets {
		parts = append(parts, fmt.Sprintf("%d:%d", i+1, count))
	}
	parts = append(parts, fmt.Sprintf("other:%d", stats.Other))
	return strings.Join(parts, " ")
}

// formatUnallocatedReasons renders one line per reason in a fixed order, skipping empty reasons
func formatUnallocatedReasons(counts map[allocator.UnallocatedReason]int) []string {
	reasons := []allocator.UnallocatedReason{
		allocator.ReasonNoPreferences,
		allocator.ReasonAllPreferredCoursesFull,
	}
	lines := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		if count := counts[reason]; count > 0 {
			lines = append(lines, fmt.Sprintf("  %-26s %d", reason, count))
		}
	}
	return lines
}

// formatAllocatedAt renders a stored RFC3339 timestamp for display
func formatAllocatedAt(value string) string {
	if value == "" {
		return "never"
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
