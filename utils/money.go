package utils

import (
	"math"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// MoneyFromFloat converts an untrusted float into a rupee amount.
// NaN, infinities and negative values become zero.
func MoneyFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// MoneyFromAmount is MoneyFromFloat for optional extracted amounts; nil is zero.
func MoneyFromAmount(a *dto.Amount) decimal.Decimal {
	return MoneyFromFloat(a.Float())
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FormatINR renders a whole-rupee amount with Indian digit grouping, e.g. ₹1,50,000.
func FormatINR(amount decimal.Decimal) string {
	rupees := amount.Round(0).IntPart()
	if rupees < 0 {
		return "-₹" + inrPrinter.Sprintf("%v", number.Decimal(-rupees))
	}
	return "₹" + inrPrinter.Sprintf("%v", number.Decimal(rupees))
}
