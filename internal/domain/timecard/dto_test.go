package timecard

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequestValidate(t *testing.T) {
	req := LoginRequest{EmployeeID: "emp-1", Date: "2026-10-15", Time: "09:30"}
	assert.NoError(t, req.Validate())

	req = LoginRequest{Date: "15-10-2026", Time: "9.30"}
	err := req.Validate()
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "time")
}

func TestBreakRequestValidate(t *testing.T) {
	out := "15:00"
	bad := "25:00"

	assert.NoError(t, (&BreakRequest{EmployeeID: "e", Date: "2026-10-15", Out: &out}).Validate())
	assert.Error(t, (&BreakRequest{EmployeeID: "e", Date: "2026-10-15"}).Validate())
	assert.Error(t, (&BreakRequest{EmployeeID: "e", Date: "2026-10-15", In: &bad}).Validate())
}

func TestNewSessionResponse(t *testing.T) {
	status := StatusPresent
	work := 480
	s := DaySession{
		ID:               "s-1",
		EmployeeID:       "emp-1",
		Date:             time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		AttendanceStatus: &status,
		WorkMinutes:      &work,
		Version:          3,
	}

	resp := NewSessionResponse(s)
	assert.Equal(t, "2026-10-15", resp.Date)
	require.NotNil(t, resp.AttendanceStatus)
	assert.Equal(t, "present", *resp.AttendanceStatus)
	assert.NotNil(t, resp.Breaks)
	assert.Empty(t, resp.Breaks)
	assert.Equal(t, 3, resp.Version)
}
