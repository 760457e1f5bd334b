package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/optcourse/allocation-portal/pkg/core/services"
)

// NextWindowCmd creates the nextWindow command
func NextWindowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "nextWindow",
		Short: "Show when the next allocation window opens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := services.NextAllocationWindow(app.Cfg, time.Now())
			if err != nil {
				return err
			}

			if next.IsZero() {
				fmt.Println("No further allocation windows are scheduled.")
				return nil
			}

			fmt.Printf("Next allocation window: %s\n", next.Format("Mon Jan 02 2006 15:04"))
			return nil
		},
	}
}
