// Command timecardctl runs timecard and payroll computations from the shell:
// classifying a day, previewing a payslip, generating a period's drafts and
// issuing access tokens for operators.
package main

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/timecard-backend-go/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "timecardctl",
		Short:         "Timecard and payroll operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("policy", "", "policy YAML overriding thresholds and the pay schedule (default: $POLICY_FILE)")

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newPayrollCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// loadPolicy prefers --policy and falls back to $POLICY_FILE.
func loadPolicy(cmd *cobra.Command) (config.Policy, error) {
	path, _ := cmd.Flags().GetString("policy")
	if path == "" {
		path = os.Getenv("POLICY_FILE")
	}
	return config.LoadPolicy(path)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
