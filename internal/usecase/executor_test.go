package usecase_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/paymentinstructions/internal/domain"
	"github.com/iho/paymentinstructions/internal/usecase"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func executorAccounts() []domain.Account {
	return []domain.Account{
		{ID: "A1", Balance: "500", Currency: "USD"},
		{ID: "A2", Balance: "10", Currency: "usd"},
	}
}

func TestExecutor_AppliesTransfer(t *testing.T) {
	exec := usecase.NewExecutor(fixedClock{now: testNow})

	result := exec.Execute(executorAccounts(), "A1", "A2", decimal.NewFromInt(100), "")

	assert.Equal(t, domain.StatusSuccessful, result.Status)
	assert.Equal(t, domain.CodeExecuted, result.StatusCode)
	assert.Equal(t, http.StatusOK, result.HTTPStatus)
	require.Len(t, result.Accounts, 2)

	debit, credit := result.Accounts[0], result.Accounts[1]
	assert.Equal(t, "400", debit.Balance.String())
	assert.Equal(t, "500", debit.BalanceBefore.String())
	assert.Equal(t, "110", credit.Balance.String())
	assert.Equal(t, "USD", credit.Currency)
}

func TestExecutor_ScheduleBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		executeBy  string
		wantStatus domain.Status
	}{
		{name: "past date executes", now: testNow, executeBy: "2025-01-01", wantStatus: domain.StatusSuccessful},
		{name: "today executes", now: testNow, executeBy: "2025-06-15", wantStatus: domain.StatusSuccessful},
		{name: "tomorrow is pending", now: testNow, executeBy: "2025-06-16", wantStatus: domain.StatusPending},
		{
			name:       "today is taken in UTC",
			now:        time.Date(2025, 6, 15, 22, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			executeBy:  "2025-06-16",
			wantStatus: domain.StatusSuccessful,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := usecase.NewExecutor(fixedClock{now: tt.now})
			result := exec.Execute(executorAccounts(), "A1", "A2", decimal.NewFromInt(1), tt.executeBy)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantStatus == domain.StatusPending, result.StatusCode == domain.CodeScheduled)
		})
	}
}

func TestExecutor_PendingKeepsBalances(t *testing.T) {
	exec := usecase.NewExecutor(fixedClock{now: testNow})

	result := exec.Execute(executorAccounts(), "A1", "A2", decimal.NewFromInt(100), "2030-01-01")

	assert.Equal(t, domain.CodeScheduled, result.StatusCode)
	assert.Equal(t, domain.CodeScheduled.Message(), result.StatusReason)
	for _, snap := range result.Accounts {
		assert.True(t, snap.Balance.Equal(snap.BalanceBefore), snap.ID)
	}
}

func TestExecutor_DoesNotMutateInput(t *testing.T) {
	accounts := executorAccounts()
	usecase.NewExecutor(nil).Execute(accounts, "A1", "A2", decimal.NewFromInt(100), "")
	assert.Equal(t, executorAccounts(), accounts)
}
