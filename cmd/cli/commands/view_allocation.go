package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/pkg/core/allocator"
	"github.com/optcourse/allocation-portal/pkg/core/services"
	"github.com/optcourse/allocation-portal/pkg/db"
)

// ViewAllocationCmd creates the viewAllocation command
func ViewAllocationCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewAllocation <package_id>",
		Short: "Show the latest allocation run of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("viewAllocation command", zap.String("package_id", args[0]))

			result, err := services.ViewAllocation(app.Ctx, app.Database, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", result.Package.Name)
			fmt.Printf("Run %s by %s at %s\n\n",
				result.Run.ID,
				result.Run.RequestedBy,
				result.Run.StartedAt.Local().Format("2006-01-02 15:04"))

			fmt.Printf("Allocated:          %d\n", result.Run.AllocatedCount)
			fmt.Printf("Unallocated:        %d\n", result.Run.UnallocatedCount)
			fmt.Printf("Dropped preferences: %d\n\n", result.Run.DroppedPreferenceCount)

			summaries := make(map[string]services.CourseSummary, len(result.Courses))
			courses := make([]db.Course, 0, len(result.Courses))
			for _, summary := range result.Courses {
				summaries[summary.Course.ID] = summary
				courses = append(courses, summary.Course)
			}

			printCourseTable(courses, func(courseID string) (int, int, allocator.RankStatistics) {
				s := summaries[courseID]
				return s.Capacity, s.Remaining, s.Stats
			})

			if len(result.Unallocated) > 0 {
				fmt.Printf("\nUnallocated students:\n")
				for _, record := range result.Unallocated {
					fmt.Printf("  %s (%s)\n", record.StudentID, record.Reason)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
