package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optcourse/allocation-portal/pkg/core/services"
)

// ListPackagesCmd creates the listPackages command
func ListPackagesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listPackages",
		Short: "List packages with their course counts and last allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := services.ListPackages(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d packages:\n\n", len(summaries))
			for _, s := range summaries {
				fmt.Printf("- %s (%s): %d courses, %d obligatory, allocated %s\n",
					s.Package.Name,
					s.Package.ID,
					s.CourseCount,
					s.Obligatory,
					formatAllocatedAt(s.Package.AllocatedDatetime))
			}
			fmt.Println()

			return nil
		},
	}
}
