package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Schedule is the statutory and allowance policy applied to a basic salary.
type Schedule struct {
	HRARate          decimal.Decimal `yaml:"hra_rate"`
	DARate           decimal.Decimal `yaml:"da_rate"`
	Conveyance       decimal.Decimal `yaml:"conveyance"`
	Medical          decimal.Decimal `yaml:"medical"`
	PFRate           decimal.Decimal `yaml:"pf_rate"`
	ESIRate          decimal.Decimal `yaml:"esi_rate"`
	ESICeiling       decimal.Decimal `yaml:"esi_ceiling"`
	HalfDayLOPWeight decimal.Decimal `yaml:"half_day_lop_weight"`
}

func DefaultSchedule() Schedule {
	return Schedule{
		HRARate:          decimal.RequireFromString("0.40"),
		DARate:           decimal.RequireFromString("0.10"),
		Conveyance:       decimal.NewFromInt(1600),
		Medical:          decimal.NewFromInt(1250),
		PFRate:           decimal.RequireFromString("0.12"),
		ESIRate:          decimal.RequireFromString("0.0075"),
		ESICeiling:       decimal.NewFromInt(21000),
		HalfDayLOPWeight: decimal.RequireFromString("0.5"),
	}
}

func (s Schedule) Validate() error {
	var errs validator.ValidationErrors

	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"hra_rate", s.HRARate},
		{"da_rate", s.DARate},
		{"pf_rate", s.PFRate},
		{"esi_rate", s.ESIRate},
		{"half_day_lop_weight", s.HalfDayLOPWeight},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{Field: r.field, Message: "must be between 0 and 1"})
		}
	}
	if s.Conveyance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "conveyance", Message: "must not be negative"})
	}
	if s.Medical.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "medical", Message: "must not be negative"})
	}
	if s.ESICeiling.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "esi_ceiling", Message: "must not be negative"})
	}

	return errs.Err()
}

// Input is everything Compute needs for one employee and period.
type Input struct {
	BasicSalary decimal.Decimal
	WorkingDays int
	PresentDays int
	HalfDays    int
	AbsentDays  int
	Adjustments Adjustments
}

// Breakdown holds every computed amount, rounded to 2 places.
type Breakdown struct {
	BasicSalary     decimal.Decimal
	HRA             decimal.Decimal
	DA              decimal.Decimal
	Conveyance      decimal.Decimal
	Medical         decimal.Decimal
	Bonus           decimal.Decimal
	Incentive       decimal.Decimal
	OvertimePay     decimal.Decimal
	PF              decimal.Decimal
	ESI             decimal.Decimal
	LOPDeduction    decimal.Decimal
	LoanDeduction   decimal.Decimal
	OtherDeductions decimal.Decimal
	GrossSalary     decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

const moneyPlaces = 2

// Compute derives earnings, deductions and net pay.
//
// Loss of pay is charged at gross/workingDays per absent day and at
// HalfDayLOPWeight of that per half day. It is capped so net pay stays at or
// above zero. When the remaining deductions alone exceed earnings the input is
// rejected with ErrNegativeNetPay.
func Compute(in Input, s Schedule) (Breakdown, error) {
	if !in.BasicSalary.IsPositive() {
		return Breakdown{}, ErrInvalidSalary
	}
	if in.WorkingDays <= 0 {
		return Breakdown{}, ErrInvalidWorkingDays
	}
	if in.PresentDays < 0 || in.HalfDays < 0 || in.AbsentDays < 0 {
		return Breakdown{}, ErrInvalidAttendance
	}
	adj := in.Adjustments
	for _, v := range []decimal.Decimal{adj.Bonus, adj.Incentive, adj.OvertimePay, adj.LoanDeduction, adj.OtherDeductions} {
		if v.IsNegative() {
			return Breakdown{}, ErrNegativeAdjustment
		}
	}

	b := Breakdown{
		BasicSalary:     in.BasicSalary.Round(moneyPlaces),
		HRA:             in.BasicSalary.Mul(s.HRARate).Round(moneyPlaces),
		DA:              in.BasicSalary.Mul(s.DARate).Round(moneyPlaces),
		Conveyance:      s.Conveyance.Round(moneyPlaces),
		Medical:         s.Medical.Round(moneyPlaces),
		Bonus:           adj.Bonus.Round(moneyPlaces),
		Incentive:       adj.Incentive.Round(moneyPlaces),
		OvertimePay:     adj.OvertimePay.Round(moneyPlaces),
		PF:              in.BasicSalary.Mul(s.PFRate).Round(moneyPlaces),
		LoanDeduction:   adj.LoanDeduction.Round(moneyPlaces),
		OtherDeductions: adj.OtherDeductions.Round(moneyPlaces),
	}

	b.GrossSalary = b.BasicSalary.Add(b.HRA).Add(b.DA).Add(b.Conveyance).Add(b.Medical)

	b.ESI = decimal.Zero
	if b.GrossSalary.LessThanOrEqual(s.ESICeiling) {
		b.ESI = b.GrossSalary.Mul(s.ESIRate).Round(moneyPlaces)
	}

	b.TotalEarnings = b.GrossSalary.Add(b.Bonus).Add(b.Incentive).Add(b.OvertimePay)

	withoutLOP := b.PF.Add(b.ESI).Add(b.LoanDeduction).Add(b.OtherDeductions)
	headroom := b.TotalEarnings.Sub(withoutLOP)
	if headroom.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: earnings %s, deductions %s", ErrNegativeNetPay, b.TotalEarnings, withoutLOP)
	}

	lopDays := decimal.NewFromInt(int64(in.AbsentDays)).
		Add(decimal.NewFromInt(int64(in.HalfDays)).Mul(s.HalfDayLOPWeight))
	b.LOPDeduction = b.GrossSalary.Mul(lopDays).Div(decimal.NewFromInt(int64(in.WorkingDays))).Round(moneyPlaces)
	if b.LOPDeduction.GreaterThan(headroom) {
		b.LOPDeduction = headroom
	}

	b.TotalDeductions = withoutLOP.Add(b.LOPDeduction)
	b.NetPay = b.TotalEarnings.Sub(b.TotalDeductions)

	return b, nil
}

// ParsePeriod parses a "YYYY-MM" pay period into the first day of that month.
func ParsePeriod(period string) (time.Time, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return t, nil
}

// PeriodBounds returns the first and last calendar day of the month holding start.
func PeriodBounds(start time.Time) (time.Time, time.Time) {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// WorkingDaysInPeriod counts Monday to Saturday in the month holding start.
func WorkingDaysInPeriod(start time.Time) int {
	first, last := PeriodBounds(start)
	days := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			days++
		}
	}
	return days
}

// AbsentDays is working days not covered by a present or half day, floored at zero.
func AbsentDays(workingDays int, s AttendanceSummary) int {
	absent := workingDays - s.PresentDays - s.HalfDays
	if absent < 0 {
		return 0
	}
	return absent
}
