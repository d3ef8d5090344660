package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted execute-by date format.
const DateLayout = "2006-01-02"

// SupportedCurrencies lists the currencies instructions may move.
var SupportedCurrencies = []string{"NGN", "USD", "GBP", "GHS"}

// IsSupportedCurrency reports whether the normalized code is supported.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// ParsePositiveInteger accepts ASCII digits only: no sign, no decimal point and
// no grouping separators. Zero is rejected.
func ParsePositiveInteger(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || !allDigits(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// ParseExecuteDate validates a YYYY-MM-DD calendar date, rejecting impossible
// days such as 2025-02-30, and returns its normalized form.
func ParseExecuteDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) != len(DateLayout) || s[4] != '-' || s[7] != '-' {
		return "", false
	}

	yearStr, monthStr, dayStr := s[0:4], s[5:7], s[8:10]
	if !allDigits(yearStr) || !allDigits(monthStr) || !allDigits(dayStr) {
		return "", false
	}

	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}

	return s, true
}

// IsValidAccountID reports whether id is non-empty and made only of ASCII
// letters, digits, '-', '.' and '@'.
func IsValidAccountID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if !isAccountIDChar(id[i]) {
			return false
		}
	}
	return true
}

func isAccountIDChar(ch byte) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= 'a' && ch <= 'z':
		return true
	}
	return ch == '-' || ch == '.' || ch == '@'
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

