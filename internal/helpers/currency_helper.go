package helpers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// NumberToWords spells num using the Indian lakh/crore grouping.
func NumberToWords(num int64) string {
	switch {
	case num <= 0:
		return ""
	case num < 20:
		return ones[num]
	case num < 100:
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	case num < 1000:
		return joinWords(ones[num/100]+" Hundred", NumberToWords(num%100))
	case num < 100000:
		return joinWords(NumberToWords(num/1000)+" Thousand", NumberToWords(num%1000))
	case num < 10000000:
		return joinWords(NumberToWords(num/100000)+" Lakh", NumberToWords(num%100000))
	default:
		return joinWords(NumberToWords(num/10000000)+" Crore", NumberToWords(num%10000000))
	}
}

func joinWords(head, tail string) string {
	if tail == "" {
		return head
	}
	return head + " " + tail
}

// NumberToCurrencyWords renders an amount as rupees and paise, e.g.
// "Five Hundred Rupees and Fifty Paise Only".
func NumberToCurrencyWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Shift(2).IntPart()

	var parts []string
	if rupees > 0 {
		parts = append(parts, fmt.Sprintf("%s Rupees", NumberToWords(rupees)))
	}
	if paise > 0 {
		parts = append(parts, fmt.Sprintf("%s Paise", NumberToWords(paise)))
	}

	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
