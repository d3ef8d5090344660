package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Account is a caller-supplied account record. Balance keeps the caller's
// textual representation until a rule needs the numeric value.
type Account struct {
	ID       string
	Balance  string
	Currency string
}

// Balances are limited to the range and precision a float64 can express, so
// a short literal such as 1e-5000000 cannot force arbitrarily long arithmetic.
const (
	maxBalanceDigits    = 330
	minBalanceExponent  = -324
	maxBalanceMagnitude = 309
)

// NumericBalance coerces Balance into a decimal. ok is false when the balance
// is empty, non-numeric or not finite.
func (a *Account) NumericBalance() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(a.Balance)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if !withinBalanceBounds(d) {
		return decimal.Zero, false
	}
	return d, true
}

func withinBalanceBounds(d decimal.Decimal) bool {
	coefficient := d.Coefficient()
	digits := len(coefficient.Abs(coefficient).String())
	exp := int(d.Exponent())

	if digits > maxBalanceDigits || exp < minBalanceExponent {
		return false
	}
	return digits+exp <= maxBalanceMagnitude
}

// NormalizedCurrency returns the upper-cased, trimmed currency code.
func (a *Account) NormalizedCurrency() string {
	return NormalizeCurrency(a.Currency)
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// FindAccount returns the first account with exactly the given id.
func FindAccount(accounts []Account, id string) *Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}
