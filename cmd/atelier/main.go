// Command atelier runs the studio API and its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/inkwell-studio/atelier/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "atelier",
	Short:         "Atelier studio backend",
	Long:          "Serves the studio API (artworks, classes, bookings, cart, orders, inquiries) and runs its maintenance commands.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)

	rootCmd.AddCommand(createAdminCmd)
}
