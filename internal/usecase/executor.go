package usecase

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/paymentinstructions/internal/domain"
)

// Executor applies validated transfers to account snapshots.
type Executor struct {
	clock Clock
}

// NewExecutor creates a new Executor.
func NewExecutor(clock Clock) *Executor {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Executor{clock: clock}
}

// Execution is the outcome of applying (or deferring) a transfer.
type Execution struct {
	Status       domain.Status
	StatusCode   domain.StatusCode
	StatusReason string
	Accounts     []domain.AccountSnapshot
	HTTPStatus   int
}

// Execute builds the snapshot pair for the two accounts. A transfer dated
// strictly after today's UTC date stays pending with unchanged balances; any
// other transfer moves amount from the debit to the credit account.
func (e *Executor) Execute(
	accounts []domain.Account,
	debitAccountID, creditAccountID string,
	amount decimal.Decimal,
	executeBy string,
) Execution {
	snapshots := domain.BuildSnapshots(accounts, debitAccountID, creditAccountID)

	if e.isFutureDated(executeBy) {
		return Execution{
			Status:       domain.StatusPending,
			StatusCode:   domain.CodeScheduled,
			StatusReason: domain.CodeScheduled.Message(),
			Accounts:     snapshots,
			HTTPStatus:   http.StatusOK,
		}
	}

	for i := range snapshots {
		switch snapshots[i].ID {
		case debitAccountID:
			snapshots[i].Balance = snapshots[i].BalanceBefore.Sub(amount)
		case creditAccountID:
			snapshots[i].Balance = snapshots[i].BalanceBefore.Add(amount)
		}
	}

	return Execution{
		Status:       domain.StatusSuccessful,
		StatusCode:   domain.CodeExecuted,
		StatusReason: domain.CodeExecuted.Message(),
		Accounts:     snapshots,
		HTTPStatus:   http.StatusOK,
	}
}

// isFutureDated compares zero-padded ISO dates lexicographically, so a
// transfer dated today executes immediately.
func (e *Executor) isFutureDated(executeBy string) bool {
	if executeBy == "" {
		return false
	}
	today := e.clock.Now().UTC().Format(domain.DateLayout)
	return executeBy > today
}
