package usecase

import (
	"encoding/json"

	"github.com/iho/paymentinstructions/internal/domain"
)

// SnapshotView is the wire form of one touched account.
type SnapshotView struct {
	ID            string      `json:"id"`
	BalanceBefore json.Number `json:"balance_before"`
	Balance       json.Number `json:"balance"`
	Currency      *string     `json:"currency"`
}

// PayloadView is the wire form of a Payload, shared by the HTTP response and
// the audit record. Decimals are written as JSON numbers without rounding.
type PayloadView struct {
	Type          *string        `json:"type"`
	Amount        *json.Number   `json:"amount"`
	Currency      *string        `json:"currency"`
	DebitAccount  *string        `json:"debit_account"`
	CreditAccount *string        `json:"credit_account"`
	ExecuteBy     *string        `json:"execute_by"`
	Status        string         `json:"status"`
	StatusReason  string         `json:"status_reason"`
	StatusCode    string         `json:"status_code"`
	Accounts      []SnapshotView `json:"accounts"`
}

// View returns the wire form of p.
func (p Payload) View() *PayloadView {
	v := &PayloadView{
		Type:          p.Type,
		Currency:      p.Currency,
		DebitAccount:  p.DebitAccount,
		CreditAccount: p.CreditAccount,
		ExecuteBy:     p.ExecuteBy,
		Status:        string(p.Status),
		StatusReason:  p.StatusReason,
		StatusCode:    string(p.StatusCode),
		Accounts:      SnapshotViews(p.Accounts),
	}
	if p.Amount != nil {
		amount := json.Number(p.Amount.String())
		v.Amount = &amount
	}
	return v
}

// MarshalJSON encodes p in its wire form.
func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.View())
}

// SnapshotViews converts snapshots to their wire form. The result is never
// nil so it always serializes as an array.
func SnapshotViews(snapshots []domain.AccountSnapshot) []SnapshotView {
	views := make([]SnapshotView, len(snapshots))
	for i, s := range snapshots {
		views[i] = SnapshotView{
			ID:            s.ID,
			BalanceBefore: json.Number(s.BalanceBefore.String()),
			Balance:       json.Number(s.Balance.String()),
			Currency:      optional(s.Currency),
		}
	}
	return views
}
