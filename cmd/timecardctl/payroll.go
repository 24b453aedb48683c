package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cmlabs-hris/timecard-backend-go/internal/config"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timecard-backend-go/internal/repository/postgresql"
	notificationService "github.com/cmlabs-hris/timecard-backend-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/timecard-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPayrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Preview or generate payroll",
	}
	cmd.AddCommand(newPayrollPreviewCmd())
	cmd.AddCommand(newPayrollGenerateCmd())
	return cmd
}

type previewOptions struct {
	salary      string
	workingDays int
	presentDays int
	halfDays    int
	bonus       string
	incentive   string
	overtime    string
	loan        string
	other       string
	asJSON      bool
}

func newPayrollPreviewCmd() *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:     "preview",
		Short:   "Compute a payslip without touching the database",
		Example: `  timecardctl payroll preview --salary 30000 --working-days 26 --present 22 --half 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayrollPreview(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.salary, "salary", "", "monthly basic salary")
	cmd.Flags().IntVar(&opts.workingDays, "working-days", 26, "working days in the period")
	cmd.Flags().IntVar(&opts.presentDays, "present", -1, "present days (default: all working days)")
	cmd.Flags().IntVar(&opts.halfDays, "half", 0, "half days")
	cmd.Flags().StringVar(&opts.bonus, "bonus", "0", "bonus amount")
	cmd.Flags().StringVar(&opts.incentive, "incentive", "0", "incentive amount")
	cmd.Flags().StringVar(&opts.overtime, "overtime", "0", "overtime pay")
	cmd.Flags().StringVar(&opts.loan, "loan", "0", "loan deduction")
	cmd.Flags().StringVar(&opts.other, "other", "0", "other deductions")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the breakdown as JSON")
	_ = cmd.MarkFlagRequired("salary")

	return cmd
}

func runPayrollPreview(cmd *cobra.Command, opts *previewOptions) error {
	policy, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	amounts := map[string]decimal.Decimal{}
	for name, raw := range map[string]string{
		"salary": opts.salary, "bonus": opts.bonus, "incentive": opts.incentive,
		"overtime": opts.overtime, "loan": opts.loan, "other": opts.other,
	} {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid --%s %q: %w", name, raw, err)
		}
		amounts[name] = v
	}

	present := opts.presentDays
	if present < 0 {
		present = opts.workingDays - opts.halfDays
	}
	summary := payroll.AttendanceSummary{PresentDays: present, HalfDays: opts.halfDays}

	breakdown, err := payroll.Compute(payroll.Input{
		BasicSalary: amounts["salary"],
		WorkingDays: opts.workingDays,
		PresentDays: present,
		HalfDays:    opts.halfDays,
		AbsentDays:  payroll.AbsentDays(opts.workingDays, summary),
		Adjustments: payroll.Adjustments{
			Bonus:           amounts["bonus"],
			Incentive:       amounts["incentive"],
			OvertimePay:     amounts["overtime"],
			LoanDeduction:   amounts["loan"],
			OtherDeductions: amounts["other"],
		},
	}, policy.Payroll)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(breakdown)
	}
	printBreakdown(cmd.OutOrStdout(), breakdown)
	return nil
}

func printBreakdown(out io.Writer, b payroll.Breakdown) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Basic", b.BasicSalary},
		{"HRA", b.HRA},
		{"DA", b.DA},
		{"Conveyance", b.Conveyance},
		{"Medical", b.Medical},
		{"Gross", b.GrossSalary},
		{"Bonus", b.Bonus},
		{"Incentive", b.Incentive},
		{"Overtime", b.OvertimePay},
		{"Total earnings", b.TotalEarnings},
		{"PF", b.PF},
		{"ESI", b.ESI},
		{"Loss of pay", b.LOPDeduction},
		{"Loan", b.LoanDeduction},
		{"Other", b.OtherDeductions},
		{"Total deductions", b.TotalDeductions},
		{"Net pay", b.NetPay},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", r.label, r.value.StringFixed(2))
	}
	_ = tw.Flush()
}

type generateOptions struct {
	period      string
	employeeIDs []string
	workingDays int
}

func newPayrollGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate draft payroll for a period against the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayrollGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.period, "period", "", "pay period YYYY-MM")
	cmd.Flags().StringSliceVar(&opts.employeeIDs, "employee", nil, "employee ids (default: every active employee)")
	cmd.Flags().IntVar(&opts.workingDays, "working-days", 0, "override working days for the period")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func runPayrollGenerate(cmd *cobra.Command, opts *generateOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	policy, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.PoolOptions())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	hub := sse.NewHub()
	defer hub.Close()
	notifSvc := notificationService.NewNotificationService(postgresql.NewNotificationRepository(db), hub, notificationService.Config{
		WorkerCount: 1,
	})
	defer notifSvc.Stop()

	svc := payrollService.NewPayrollService(
		postgresql.NewTransactor(db),
		postgresql.NewPayrollRepository(db),
		postgresql.NewEmployeeRepository(db),
		notifSvc,
		policy.Payroll,
	)

	req := payroll.GeneratePeriodRequest{PayPeriod: opts.period, EmployeeIDs: opts.employeeIDs}
	if opts.workingDays > 0 {
		req.WorkingDays = &opts.workingDays
	}

	records, err := svc.GeneratePeriod(ctx, req)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMPLOYEE\tNAME\tGROSS\tDEDUCTIONS\tNET\tSTATUS")
	for _, r := range records {
		name := ""
		if r.EmployeeName != nil {
			name = *r.EmployeeName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.EmployeeID, name, r.GrossSalary.StringFixed(2), r.TotalDeductions.StringFixed(2), r.NetPay.StringFixed(2), r.Status)
	}
	_ = tw.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "%d records generated for %s\n", len(records), opts.period)
	return nil
}
