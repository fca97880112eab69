package main

import (
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/spf13/cobra"
)

func newEmployeeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employee profiles read by the timesheet engine",
	}
	cmd.AddCommand(newEmployeeAddCommand())
	return cmd
}

func newEmployeeAddCommand() *cobra.Command {
	var (
		name             string
		startStr, endStr string
		capHours         float64
	)

	cmd := &cobra.Command{
		Use:   "add <employee-id>",
		Short: "Create or update an employee profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			profile := employee.Profile{ID: args[0], DisplayName: name}
			if startStr != "" || endStr != "" {
				schedule, err := employee.NewShiftSchedule(startStr, endStr, capHours)
				if err != nil {
					return err
				}
				profile.Schedule = &schedule
			}

			saved, err := a.EmployeeRepo.SaveProfile(cmd.Context(), profile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved employee %s (%s)\n", saved.ID, saved.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&startStr, "start", "", "Shift start (HH:MM), default schedule when empty")
	cmd.Flags().StringVar(&endStr, "end", "", "Shift end (HH:MM)")
	cmd.Flags().Float64Var(&capHours, "cap", employee.DefaultRegularCapHours, "Regular hours cap")
	return cmd
}
