package main

import (
	"fmt"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/spf13/cobra"
)

type classifyOptions struct {
	login      string
	logout     string
	lunchOut   string
	lunchIn    string
	work       int
	permission int
}

func newClassifyCmd() *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a day from its clock times or worked minutes",
		Example: `  timecardctl classify --login 09:45 --logout 19:00 --lunch-out 13:00 --lunch-in 13:40
  timecardctl classify --work 300 --permission 45`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.login, "login", "", "login time HH:MM")
	cmd.Flags().StringVar(&opts.logout, "logout", "", "logout time HH:MM")
	cmd.Flags().StringVar(&opts.lunchOut, "lunch-out", "", "lunch start HH:MM")
	cmd.Flags().StringVar(&opts.lunchIn, "lunch-in", "", "lunch end HH:MM")
	cmd.Flags().IntVar(&opts.work, "work", -1, "worked minutes; replaces the clock flags")
	cmd.Flags().IntVar(&opts.permission, "permission", 0, "permission minutes taken")
	cmd.MarkFlagsRequiredTogether("login", "logout")
	cmd.MarkFlagsRequiredTogether("lunch-out", "lunch-in")
	cmd.MarkFlagsMutuallyExclusive("work", "login")

	return cmd
}

func runClassify(cmd *cobra.Command, opts *classifyOptions) error {
	policy, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	work := opts.work
	if work < 0 {
		if opts.login == "" {
			return fmt.Errorf("either --work or --login/--logout is required")
		}
		work, err = workedMinutes(opts)
		if err != nil {
			return err
		}
	}

	status, reason := timecard.Classify(work, opts.permission, policy.Timecard)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "work:   %s (%d minutes)\n", timecard.FormatSpan(work), work)
	fmt.Fprintf(out, "status: %s\n", status)
	fmt.Fprintf(out, "reason: %s\n", reason)
	return nil
}

// workedMinutes mirrors logout: login to logout, less lunch, floored at zero.
func workedMinutes(opts *classifyOptions) (int, error) {
	total, err := timecard.OrderedDuration(opts.login, opts.logout)
	if err != nil {
		return 0, err
	}

	if opts.lunchOut != "" {
		lunch, err := timecard.OrderedDuration(opts.lunchOut, opts.lunchIn)
		if err != nil {
			return 0, err
		}
		total -= lunch
	}

	if total < 0 {
		return 0, nil
	}
	return total, nil
}
