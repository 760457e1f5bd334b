package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/pkg/core/allocator"
	"github.com/optcourse/allocation-portal/pkg/core/services"
)

// RunAllocationCmd creates the runAllocation command
func RunAllocationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runAllocation <package_id>",
		Short: "Allocate the students of a package to its courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			as, _ := cmd.Flags().GetString("as")

			surface, err := services.ParseSurface(as)
			if err != nil {
				return err
			}

			app.Logger.Debug("runAllocation command",
				zap.String("package_id", args[0]),
				zap.String("surface", string(surface)),
				zap.Bool("dry_run", dryRun))

			result, err := services.RunAllocation(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], surface, dryRun)
			if err != nil {
				return err
			}

			report := result.Result.Report
			if dryRun {
				fmt.Printf("\nAllocation computed for %s (dry run, not saved)\n\n", result.Package.Name)
			} else {
				fmt.Printf("\n✓ Allocation saved for %s\n\n", result.Package.Name)
				fmt.Printf("Run ID: %s\n\n", result.Run.ID)
			}

			fmt.Printf("Allocated:   %d\n", len(report.Allocated))
			fmt.Printf("Unallocated: %d\n", len(report.Unallocated))
			for _, line := range formatUnallocatedReasons(report.UnallocatedByReason()) {
				fmt.Println(line)
			}
			fmt.Println()

			printCourseTable(result.Courses, func(courseID string) (int, int, allocator.RankStatistics) {
				capacity := result.Result.Seats[courseID]
				return capacity, report.RemainingSeatsByCourse[courseID], report.RankStatistics[courseID]
			})

			if len(report.DataQuality) > 0 {
				fmt.Printf("\n⚠️  %d students had preference entries dropped or merged:\n", len(report.DataQuality))
				for _, warning := range report.DataQuality {
					fmt.Printf("  %s: dropped %v, duplicates %d\n", warning.CandidateID, warning.Dropped, warning.Duplicates)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().String("as", string(services.SurfaceAdmin), "Surface triggering the run (admin or secretary)")

	return cmd
}
