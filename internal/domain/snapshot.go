package domain

import "github.com/shopspring/decimal"

// AccountSnapshot records the balance of one account before and after an
// instruction.
type AccountSnapshot struct {
	ID            string
	Currency      string
	BalanceBefore decimal.Decimal
	Balance       decimal.Decimal
}

// BuildSnapshots returns one snapshot for the debit and one for the credit
// account, in the order they appear in accounts. Unless both ids are non-empty,
// distinct and present, no snapshots are returned. Balances that cannot be
// coerced are reported as zero.
func BuildSnapshots(accounts []Account, debitID, creditID string) []AccountSnapshot {
	if debitID == "" || creditID == "" || debitID == creditID {
		return []AccountSnapshot{}
	}

	debit := FindAccount(accounts, debitID)
	credit := FindAccount(accounts, creditID)
	if debit == nil || credit == nil {
		return []AccountSnapshot{}
	}

	first, second := debit, credit
	if indexOf(accounts, credit) < indexOf(accounts, debit) {
		first, second = credit, debit
	}

	return []AccountSnapshot{snapshotOf(first), snapshotOf(second)}
}

func snapshotOf(a *Account) AccountSnapshot {
	balance, ok := a.NumericBalance()
	if !ok {
		balance = decimal.Zero
	}
	return AccountSnapshot{
		ID:            a.ID,
		Currency:      a.NormalizedCurrency(),
		BalanceBefore: balance,
		Balance:       balance,
	}
}

func indexOf(accounts []Account, target *Account) int {
	for i := range accounts {
		if &accounts[i] == target {
			return i
		}
	}
	return -1
}
