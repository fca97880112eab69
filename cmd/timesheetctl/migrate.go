package main

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			db := a.DB()
			if db == nil {
				return errors.New("migrate requires STORE_DRIVER=postgres")
			}
			if _, err := db.Exec(cmd.Context(), migrations.InitSQL); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
			return nil
		},
	}
}
