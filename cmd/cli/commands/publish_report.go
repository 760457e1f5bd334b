package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/pkg/core/services"
)

// PublishReportCmd creates the publishReport command
func PublishReportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishReport <package_id>",
		Short: "Publish the latest allocation run of a package to the report sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("publishReport command", zap.String("package_id", args[0]))

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			report, err := services.PublishAllocationReport(app.Ctx, app.Database, client, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Report for %s published (%d courses, %d students)\n\n",
				report.PackageName, len(report.Courses), len(report.Students))

			return nil
		},
	}
}
