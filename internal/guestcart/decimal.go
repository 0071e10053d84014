package guestcart

import "github.com/shopspring/decimal"

func intDecimal(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
