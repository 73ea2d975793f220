package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places every stored balance and amount carries.
const AmountScale int32 = 2

// TimeLayout is the local date-time text format used in every record file.
// The fractional part is optional on parse and trimmed on format, so values round-trip.
const TimeLayout = "2006-01-02T15:04:05.999999999"

// Floor2 re-scales an amount to two decimal places, rounding toward negative infinity.
// Every balance mutation goes through it so deposit, withdrawal and undo paths never drift.
func Floor2(d decimal.Decimal) decimal.Decimal {
	return d.RoundFloor(AmountScale)
}

// FormatAmount renders an amount as fixed two-decimal text.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}

// ParseAmount parses decimal text into a fixed-point amount. Binary floats are never involved.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FormatTime renders a timestamp in the record file layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a record file timestamp as local time.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

// Direction says whether money enters or leaves an account.
type Direction int

const (
	MoneyIn Direction = iota
	MoneyOut
)

// Invert returns the opposite direction.
func (d Direction) Invert() Direction {
	if d == MoneyIn {
		return MoneyOut
	}
	return MoneyIn
}

// SignedDelta applies the balance sign convention of an account nature to a positive amount.
//
//	money in  to ASSET     -> +
//	money out of ASSET     -> -
//	money in  to LIABILITY -> -  (pays down what is owed)
//	money out of LIABILITY -> +  (borrows more)
func SignedDelta(nature Nature, dir Direction, amount decimal.Decimal) (decimal.Decimal, error) {
	signed := Floor2(amount)
	switch nature {
	case Asset:
		if dir == MoneyOut {
			signed = signed.Neg()
		}
	case Liability:
		if dir == MoneyIn {
			signed = signed.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account nature '%s'", nature)
	}
	return signed, nil
}
