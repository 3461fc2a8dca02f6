package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/spf13/cobra"
)

var weekdaysPT = [...]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}

func loadCalendar(path string) (*calendar.Calendar, error) {
	if path == "" {
		return calendar.New(), nil
	}
	opts, err := calendar.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return calendar.New(opts...), nil
}

func newHolidaysCmd() *cobra.Command {
	var (
		year         int
		holidaysFile string
	)

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the base holiday calendar of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := loadCalendar(holidaysFile)
			if err != nil {
				return err
			}
			if year == 0 {
				year = time.Now().Year()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, h := range cal.Holidays(year) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Date.Format("2006-01-02"), weekdaysPT[h.Date.Weekday()], h.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default current year)")
	cmd.Flags().StringVar(&holidaysFile, "holidays-file", os.Getenv("HOLIDAYS_FILE"), "YAML file with extra holidays")
	return cmd
}

func newTriggerDateCmd() *cobra.Command {
	var (
		lead         int
		holidaysFile string
	)

	cmd := &cobra.Command{
		Use:   "trigger-date BIRTHDAY",
		Short: "Show the day a gift for BIRTHDAY (YYYY-MM-DD) must be ready to ship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			birthday, ok := validator.IsValidDate(args[0])
			if !ok {
				return fmt.Errorf("birthday must be in YYYY-MM-DD format")
			}
			if lead < 0 {
				return fmt.Errorf("--lead must not be negative")
			}
			cal, err := loadCalendar(holidaysFile)
			if err != nil {
				return err
			}

			trigger := cal.TriggerDate(birthday, lead)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", trigger.Format("2006-01-02"), weekdaysPT[trigger.Weekday()])
			return nil
		},
	}
	cmd.Flags().IntVar(&lead, "lead", 7, "business days between trigger and birthday")
	cmd.Flags().StringVar(&holidaysFile, "holidays-file", os.Getenv("HOLIDAYS_FILE"), "YAML file with extra holidays")
	return cmd
}
