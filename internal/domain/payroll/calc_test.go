package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func assertBalanced(t *testing.T, b Breakdown) {
	t.Helper()
	assert.True(t, b.NetPay.Equal(b.TotalEarnings.Sub(b.TotalDeductions)), "net %s != earnings %s - deductions %s", b.NetPay, b.TotalEarnings, b.TotalDeductions)
	assert.False(t, b.NetPay.IsNegative())
}

func TestComputeAboveESICeiling(t *testing.T) {
	b, err := Compute(Input{BasicSalary: money("30000"), WorkingDays: 27, PresentDays: 27}, DefaultSchedule())
	require.NoError(t, err)

	assertMoney(t, "12000", b.HRA, "hra")
	assertMoney(t, "3000", b.DA, "da")
	assertMoney(t, "1600", b.Conveyance, "conveyance")
	assertMoney(t, "1250", b.Medical, "medical")
	assertMoney(t, "47850", b.GrossSalary, "gross")
	assertMoney(t, "3600", b.PF, "pf")
	assertMoney(t, "0", b.ESI, "esi")
	assertMoney(t, "0", b.LOPDeduction, "lop")
	assertMoney(t, "47850", b.TotalEarnings, "earnings")
	assertMoney(t, "3600", b.TotalDeductions, "deductions")
	assertMoney(t, "44250", b.NetPay, "net")
	assertBalanced(t, b)
}

func TestComputeBelowESICeiling(t *testing.T) {
	b, err := Compute(Input{BasicSalary: money("10000"), WorkingDays: 24, PresentDays: 24}, DefaultSchedule())
	require.NoError(t, err)

	assertMoney(t, "17850", b.GrossSalary, "gross")
	assertMoney(t, "1200", b.PF, "pf")
	assertMoney(t, "133.88", b.ESI, "esi")
	assertMoney(t, "16516.12", b.NetPay, "net")
	assertBalanced(t, b)
}

func TestComputeESIAtCeiling(t *testing.T) {
	s := DefaultSchedule()
	s.ESICeiling = money("17850")

	b, err := Compute(Input{BasicSalary: money("10000"), WorkingDays: 24}, s)
	require.NoError(t, err)
	assertMoney(t, "133.88", b.ESI, "esi")
}

func TestComputeLossOfPay(t *testing.T) {
	b, err := Compute(Input{
		BasicSalary: money("30000"),
		WorkingDays: 27,
		PresentDays: 24,
		HalfDays:    1,
		AbsentDays:  2,
	}, DefaultSchedule())
	require.NoError(t, err)

	// 47850 / 27 per day, for 2 absent days and one half day.
	assertMoney(t, "4430.56", b.LOPDeduction, "lop")
	assertMoney(t, "8030.56", b.TotalDeductions, "deductions")
	assertMoney(t, "39819.44", b.NetPay, "net")
	assertBalanced(t, b)
}

func TestComputeAdjustments(t *testing.T) {
	b, err := Compute(Input{
		BasicSalary: money("30000"),
		WorkingDays: 27,
		PresentDays: 27,
		Adjustments: Adjustments{
			Bonus:           money("5000"),
			Incentive:       money("1000.50"),
			OvertimePay:     money("750"),
			LoanDeduction:   money("2000"),
			OtherDeductions: money("100"),
		},
	}, DefaultSchedule())
	require.NoError(t, err)

	assertMoney(t, "47850", b.GrossSalary, "gross")
	assertMoney(t, "54600.50", b.TotalEarnings, "earnings")
	assertMoney(t, "5700", b.TotalDeductions, "deductions")
	assertMoney(t, "48900.50", b.NetPay, "net")
	assertBalanced(t, b)
}

func TestComputeCapsLossOfPayAtZeroNet(t *testing.T) {
	b, err := Compute(Input{
		BasicSalary: money("10000"),
		WorkingDays: 24,
		PresentDays: 14,
		AbsentDays:  10,
		Adjustments: Adjustments{LoanDeduction: money("16000")},
	}, DefaultSchedule())
	require.NoError(t, err)

	assertMoney(t, "516.12", b.LOPDeduction, "lop")
	assertMoney(t, "0", b.NetPay, "net")
	assertBalanced(t, b)
}

func TestComputeRejectsNegativeNet(t *testing.T) {
	_, err := Compute(Input{
		BasicSalary: money("10000"),
		WorkingDays: 24,
		Adjustments: Adjustments{OtherDeductions: money("20000")},
	}, DefaultSchedule())
	assert.ErrorIs(t, err, ErrNegativeNetPay)
}

func TestComputeValidatesInput(t *testing.T) {
	s := DefaultSchedule()

	_, err := Compute(Input{BasicSalary: decimal.Zero, WorkingDays: 26}, s)
	assert.ErrorIs(t, err, ErrInvalidSalary)

	_, err = Compute(Input{BasicSalary: money("1000"), WorkingDays: 0}, s)
	assert.ErrorIs(t, err, ErrInvalidWorkingDays)

	_, err = Compute(Input{BasicSalary: money("1000"), WorkingDays: 26, AbsentDays: -1}, s)
	assert.ErrorIs(t, err, ErrInvalidAttendance)

	_, err = Compute(Input{BasicSalary: money("1000"), WorkingDays: 26, Adjustments: Adjustments{Bonus: money("-1")}}, s)
	assert.ErrorIs(t, err, ErrNegativeAdjustment)
}

func TestWorkingDaysInPeriod(t *testing.T) {
	cases := map[string]int{
		"2026-10": 27,
		"2026-02": 24,
		"2024-02": 25,
	}
	for period, want := range cases {
		start, err := ParsePeriod(period)
		require.NoError(t, err)
		assert.Equal(t, want, WorkingDaysInPeriod(start), period)
	}
}

func TestParsePeriod(t *testing.T) {
	got, err := ParsePeriod("2026-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParsePeriod("2026-13")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodBounds(t *testing.T) {
	first, last := PeriodBounds(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-02-01", first.Format("2006-01-02"))
	assert.Equal(t, "2026-02-28", last.Format("2006-01-02"))
}

func TestAbsentDays(t *testing.T) {
	assert.Equal(t, 2, AbsentDays(27, AttendanceSummary{PresentDays: 24, HalfDays: 1}))
	assert.Equal(t, 0, AbsentDays(20, AttendanceSummary{PresentDays: 22}))
}

func TestAdjustmentsInputApplyTo(t *testing.T) {
	bonus := money("100")
	base := Adjustments{Bonus: money("50"), LoanDeduction: money("20")}

	got := AdjustmentsInput{Bonus: &bonus}.ApplyTo(base)
	assertMoney(t, "100", got.Bonus, "bonus")
	assertMoney(t, "20", got.LoanDeduction, "loan")
}
