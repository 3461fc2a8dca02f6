package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/app"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/spf13/cobra"
)

func newProcessCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Mark every pending shipment whose trigger date has arrived as ready to ship",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				day := time.Now().In(a.Location)
				if date != "" {
					parsed, ok := validator.IsValidDate(date)
					if !ok {
						return fmt.Errorf("--date must be in YYYY-MM-DD format")
					}
					day = parsed
				}

				result, err := a.Shipments.ProcessDueForAll(cmd.Context(), day)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "business day to process (YYYY-MM-DD, default today)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create the missing gift shipments of a year for every organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				if year == 0 {
					year = time.Now().In(a.Location).Year()
				}
				created, err := a.Shipments.GenerateYearForAll(cmd.Context(), year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d shipment(s) created for %d\n", created, year)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year to generate (default current year)")
	return cmd
}

func newPurgeCmd() *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "purge-notifications",
		Short: "Delete read notifications older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				if retention == 0 {
					retention = a.Config.Notification.Retention
				}
				deleted, err := a.Notifications.Purge(cmd.Context(), retention)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d notification(s) deleted\n", deleted)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "keep read notifications newer than this (default NOTIFICATION_RETENTION)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
