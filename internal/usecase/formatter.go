package usecase

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/paymentinstructions/internal/domain"
)

// ResponseInput carries whatever a pipeline stage knows when it terminates.
// Empty strings and a nil Amount mean the value is unknown.
type ResponseInput struct {
	HTTPStatus      int
	Type            domain.InstructionType
	Amount          *decimal.Decimal
	Currency        string
	DebitAccountID  string
	CreditAccountID string
	ExecuteBy       string
	Status          domain.Status
	StatusReason    string
	StatusCode      domain.StatusCode
	Accounts        []domain.AccountSnapshot
}

// Payload is the uniform response body. Nil pointers are reported as null.
type Payload struct {
	Type          *string
	Amount        *decimal.Decimal
	Currency      *string
	DebitAccount  *string
	CreditAccount *string
	ExecuteBy     *string
	Status        domain.Status
	StatusReason  string
	StatusCode    domain.StatusCode
	Accounts      []domain.AccountSnapshot
}

// Result pairs the payload with its HTTP status and the reference assigned to
// the processed instruction.
type Result struct {
	HTTPStatus int
	Reference  string
	Payload    Payload
}

// FormatResponse maps a stage outcome onto the canonical payload.
func FormatResponse(in ResponseInput) *Result {
	status := in.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}

	accounts := in.Accounts
	if accounts == nil {
		accounts = []domain.AccountSnapshot{}
	}

	return &Result{
		HTTPStatus: status,
		Payload: Payload{
			Type:          optional(string(in.Type)),
			Amount:        in.Amount,
			Currency:      optional(in.Currency),
			DebitAccount:  optional(in.DebitAccountID),
			CreditAccount: optional(in.CreditAccountID),
			ExecuteBy:     optional(in.ExecuteBy),
			Status:        in.Status,
			StatusReason:  in.StatusReason,
			StatusCode:    in.StatusCode,
			Accounts:      accounts,
		},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// RequestRejected formats a request whose shape was rejected before the
// pipeline ran.
func RequestRejected(reason string) *Result {
	return failed(ResponseInput{StatusCode: domain.CodeMalformed, StatusReason: reason})
}
