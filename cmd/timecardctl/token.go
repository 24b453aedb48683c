package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	employeeID string
	userID     string
	role       string
	expiry     string
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
	}

	opts := &tokenOptions{}
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token signed with JWT_SECRET_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenIssue(cmd, opts)
		},
	}
	issue.Flags().StringVar(&opts.employeeID, "employee", "", "employee id carried in the token")
	issue.Flags().StringVar(&opts.userID, "user", "", "user id (default: the employee id)")
	issue.Flags().StringVar(&opts.role, "role", string(user.RoleEmployee), "role, e.g. employee, team_lead, super_admin")
	issue.Flags().StringVar(&opts.expiry, "expiry", "", "token lifetime (default: $JWT_ACCESS_EXPIRATION_TIME or 1h)")
	_ = issue.MarkFlagRequired("employee")

	cmd.AddCommand(issue)
	return cmd
}

func runTokenIssue(cmd *cobra.Command, opts *tokenOptions) error {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	role := user.ParseRole(opts.role)
	if role == user.RoleUnknown {
		return fmt.Errorf("unknown role %q", opts.role)
	}

	expiry := opts.expiry
	if expiry == "" {
		expiry = os.Getenv("JWT_ACCESS_EXPIRATION_TIME")
	}
	if expiry == "" {
		expiry = "1h"
	}

	svc, err := jwt.NewJWTService(secret, expiry)
	if err != nil {
		return err
	}

	userID := opts.userID
	if userID == "" {
		userID = opts.employeeID
	}

	token, expiresAt, err := svc.GenerateAccessToken(jwt.Claims{UserID: userID, EmployeeID: opts.employeeID, Role: role})
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "role %s, expires %s\n", role, time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	return nil
}
