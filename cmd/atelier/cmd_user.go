package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/internal/server"
)

var adminEmail, adminName, adminPassword string

// atelier user:create-admin
var createAdminCmd = &cobra.Command{
	Use:   "user:create-admin",
	Short: "Create an admin user, or promote an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.BootDB()
		if err != nil {
			return err
		}
		user, err := services.NewAuthService(db).EnsureAdmin(context.Background(), adminEmail, adminName, adminPassword)
		if err != nil {
			var se *services.Error
			if errors.As(err, &se) {
				return errors.New(se.Message)
			}
			return err
		}
		fmt.Printf("✅ %s (#%d) is an admin\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password (at least 6 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
