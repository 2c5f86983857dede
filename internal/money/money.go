// Package money converts between the integer-cents canonical amount
// and the representations found upstream: plain numbers (29.90) and
// legacy currency strings ("R$ 29,90").
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCents parses a price representation into cents. Typed ints are
// already cents (the canonical form); floats and numeric strings are
// reais amounts, with either decimal separator and an optional "R$"
// prefix. The boolean reports whether the input was a valid amount;
// callers that tolerate malformed upstream data use the zero value.
func ParseCents(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int:
		if x < 0 {
			return 0, false
		}
		return x, true
	case int64:
		if x < 0 {
			return 0, false
		}
		return int(x), true
	case float64:
		if x < 0 {
			return 0, false
		}
		return round(x * 100), true
	case float32:
		if x < 0 {
			return 0, false
		}
		return round(float64(x) * 100), true
	case string:
		return parseString(x)
	default:
		return 0, false
	}
}

func parseString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// "1.299,90" and "29,90" use comma decimals; "29.90" is already fine.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return round(f * 100), true
}

func round(f float64) int { return int(math.Round(f)) }

// FormatBRL renders cents in the shop's display format, e.g. 2990 ->
// "R$ 29,90", 129990 -> "R$ 1.299,90".
func FormatBRL(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, groupThousands(cents/100), cents%100)
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// DiscountPercent derives the rounded percentage saved against the
// original price. Zero when there is no meaningful discount.
func DiscountPercent(priceCents, originalCents int) int {
	if originalCents <= 0 || priceCents < 0 || originalCents <= priceCents {
		return 0
	}
	return round((1 - float64(priceCents)/float64(originalCents)) * 100)
}
