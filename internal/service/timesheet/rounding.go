package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hourNanos   = decimal.NewFromInt(int64(time.Hour))
	minuteNanos = decimal.NewFromInt(int64(time.Minute))
)

// hoursOf converts d to hours without going through float64
func hoursOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).Div(hourNanos)
}

func minutesOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).Div(minuteNanos)
}

// Round2 rounds to two decimals, half away from zero
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
