package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_NumericBalance(t *testing.T) {
	tests := []struct {
		balance string
		want    string
		ok      bool
	}{
		{balance: "500", want: "500", ok: true},
		{balance: " 10.50 ", want: "10.5", ok: true},
		{balance: "-3", want: "-3", ok: true},
		{balance: "1.5e2", want: "150", ok: true},
		{balance: "1e308", ok: true},
		{balance: "5e-324", ok: true},
		{balance: "", ok: false},
		{balance: "lots", ok: false},
		{balance: "NaN", ok: false},
		{balance: "Infinity", ok: false},
		{balance: "1e-5000000", ok: false},
		{balance: "1e-325", ok: false},
		{balance: "1e400", ok: false},
		{balance: "9e2147483647", ok: false},
		{balance: "0." + strings.Repeat("0", 1000) + "1", ok: false},
		{balance: strings.Repeat("9", 331), ok: false},
	}

	for _, tt := range tests {
		name := tt.balance
		if len(name) > 24 {
			name = name[:24]
		}
		t.Run(name, func(t *testing.T) {
			a := &Account{ID: "A1", Balance: tt.balance, Currency: "USD"}

			got, ok := a.NumericBalance()
			require.Equal(t, tt.ok, ok)
			if !ok {
				assert.True(t, got.IsZero())
				return
			}
			if tt.want != "" {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestValidate_OutOfRangeBalanceIsInvalid(t *testing.T) {
	accounts := []Account{
		{ID: "A1", Balance: "500", Currency: "USD"},
		{ID: "A2", Balance: "1e-5000000", Currency: "USD"},
	}

	_, err := Validate(debitInstruction("100", "USD", "A1", "A2", ""), accounts)
	require.ErrorIs(t, err, ErrInvalidBalance)
	assert.Equal(t, "Account not found: invalid balance for credit account", AsInstructionError(err).Reason)

	snaps := BuildSnapshots(accounts, "A1", "A2")
	require.Len(t, snaps, 2)
	assert.True(t, snaps[1].BalanceBefore.IsZero())
}

func TestFindAccount_FirstMatchWins(t *testing.T) {
	accounts := []Account{
		{ID: "A1", Balance: "1"},
		{ID: "A1", Balance: "2"},
	}

	found := FindAccount(accounts, "A1")
	require.NotNil(t, found)
	assert.Equal(t, "1", found.Balance)
	assert.Nil(t, FindAccount(accounts, "a1"))
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCurrency(" usd "))
	assert.Empty(t, NormalizeCurrency("  "))
}
