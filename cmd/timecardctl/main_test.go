package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("POLICY_FILE", "")

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestClassify_FromClockTimes(t *testing.T) {
	out, _, err := execute(t, "classify", "--login", "09:45", "--logout", "19:00", "--lunch-out", "13:00", "--lunch-in", "13:40")
	require.NoError(t, err)

	assert.Contains(t, out, "8h35m (515 minutes)")
	assert.Contains(t, out, "status: present")
}

func TestClassify_FromWorkMinutes(t *testing.T) {
	out, _, err := execute(t, "classify", "--work", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "status: half_day")

	out, _, err = execute(t, "classify", "--work", "495", "--permission", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "status: half_day")
	assert.Contains(t, out, "exceeds the 120 minute limit by 30")
}

func TestClassify_Rejections(t *testing.T) {
	_, _, err := execute(t, "classify")
	assert.Error(t, err)

	_, _, err = execute(t, "classify", "--login", "18:00", "--logout", "09:00")
	assert.Error(t, err)

	_, _, err = execute(t, "classify", "--login", "09:00")
	assert.Error(t, err)
}

func TestClassify_PolicyFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timecard:\n  required_work_minutes: 300\n  half_day_floor_minutes: 200\n"), 0o600))

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"--policy", path, "classify", "--work", "300"})
	require.NoError(t, root.Execute())

	assert.Contains(t, stdout.String(), "status: present")
}

func TestPayrollPreview_FullAttendance(t *testing.T) {
	out, _, err := execute(t, "payroll", "preview", "--salary", "30000", "--json")
	require.NoError(t, err)

	var breakdown map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
	assert.Equal(t, "47850", breakdown["GrossSalary"])
	assert.Equal(t, "3600", breakdown["PF"])
	assert.Equal(t, "0", breakdown["ESI"])
	assert.Equal(t, "44250", breakdown["NetPay"])
}

func TestPayrollPreview_Table(t *testing.T) {
	out, _, err := execute(t, "payroll", "preview", "--salary", "30000", "--bonus", "500")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "Net pay")
	assert.Contains(t, lines[len(lines)-1], "44750.00")
}

func TestPayrollPreview_Rejections(t *testing.T) {
	_, _, err := execute(t, "payroll", "preview")
	assert.Error(t, err)

	_, _, err = execute(t, "payroll", "preview", "--salary", "abc")
	assert.ErrorContains(t, err, "--salary")
}

func TestTokenIssue(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "cli-secret")

	out, stderr, err := execute(t, "token", "issue", "--employee", "emp-7", "--role", "Team-Lead")
	require.NoError(t, err)
	assert.Contains(t, stderr, "role team_lead")

	svc, err := jwt.NewJWTService("cli-secret", "1h")
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(svc.JWTAuth(), strings.TrimSpace(out))
	require.NoError(t, err)

	employeeID, _ := token.Get("employee_id")
	role, _ := token.Get("role")
	assert.Equal(t, "emp-7", employeeID)
	assert.Equal(t, "team_lead", role)
}

func TestTokenIssue_Rejections(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "cli-secret")

	_, _, err := execute(t, "token", "issue", "--employee", "emp-7", "--role", "janitor")
	assert.ErrorContains(t, err, "unknown role")

	t.Setenv("JWT_SECRET_KEY", "")
	_, _, err = execute(t, "token", "issue", "--employee", "emp-7")
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}
