package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/atelier/database/seeders"
	"github.com/inkwell-studio/atelier/internal/server"
	"github.com/inkwell-studio/atelier/pkg/migration"
)

// atelier migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.BootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		n, err := migration.New(db, os.Stdout).Run()
		if err != nil {
			return err
		}
		fmt.Printf("✅ %d migration(s) applied\n", n)
		return nil
	},
}

// atelier migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.BootDB()
		if err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		n, err := migration.New(db, os.Stdout).Rollback()
		if err != nil {
			return err
		}
		fmt.Printf("✅ %d migration(s) rolled back\n", n)
		return nil
	},
}

// atelier migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.BootDB()
		if err != nil {
			return err
		}
		rows, err := migration.New(db, os.Stdout).Status()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range rows {
			ran, batch := "no", "-"
			if s.Ran {
				ran, batch = "yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, ran, batch)
		}
		return w.Flush()
	},
}

// atelier seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the admin user and sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.BootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(context.Background(), db, os.Stdout)
	},
}
