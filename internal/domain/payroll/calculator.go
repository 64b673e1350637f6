package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const amountPlaces = 2

var (
	HRARate       = decimal.New(20, -2)
	AllowanceRate = decimal.New(10, -2)
)

// MonthStart returns the first day of t's calendar month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's calendar month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// DaysInMonth counts the days of t's calendar month, leap years included.
func DaysInMonth(t time.Time) int {
	return MonthEnd(t).Day()
}

// ParseMonth accepts "YYYY-MM" or a full "YYYY-MM-DD" date and returns the
// first day of that month.
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthStart(t), nil
		}
	}
	return time.Time{}, ErrInvalidMonth
}

// ComputeAmounts derives a month's slip amounts from the base salary and the
// number of absent days. Every rounded step rounds half away from zero to
// 2 places. Net pay is not clamped and may be negative.
func ComputeAmounts(baseSalary decimal.Decimal, anyDateInMonth time.Time, absentDays int) SlipAmounts {
	first := MonthStart(anyDateInMonth)
	days := DaysInMonth(first)

	hra := baseSalary.Mul(HRARate).Round(amountPlaces)
	allowances := baseSalary.Mul(AllowanceRate).Round(amountPlaces)

	perDay := decimal.Zero
	if days > 0 {
		perDay = baseSalary.DivRound(decimal.NewFromInt(int64(days)), amountPlaces)
	}
	deductions := perDay.Mul(decimal.NewFromInt(int64(absentDays))).Round(amountPlaces)

	gross := baseSalary.Add(hra).Add(allowances)
	net := gross.Sub(deductions).Round(amountPlaces)

	return SlipAmounts{
		Month:       first,
		DaysInMonth: days,
		AbsentDays:  absentDays,
		PerDayRate:  perDay,
		Basic:       baseSalary,
		HRA:         hra,
		Allowances:  allowances,
		Gross:       gross,
		Deductions:  deductions,
		NetPay:      net,
	}
}
