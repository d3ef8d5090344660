package domain

import "errors"

var (
	// Syntax errors
	ErrUnparseable         = errors.New("instruction unparseable")
	ErrMissingKeyword      = errors.New("missing required keyword")
	ErrInvalidKeywordOrder = errors.New("invalid keyword order")

	// Semantic errors
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidAccountID    = errors.New("invalid account id format")
	ErrSameAccount         = errors.New("debit and credit accounts are the same")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidBalance      = errors.New("account balance is not a finite number")
	ErrCurrencyMismatch    = errors.New("account currency mismatch")
	ErrInvalidDate         = errors.New("invalid execute-by date")
	ErrInsufficientFunds   = errors.New("insufficient funds in debit account")
)

var errorCodes = map[error]StatusCode{
	ErrUnparseable:         CodeMalformed,
	ErrMissingKeyword:      CodeMissingKeyword,
	ErrInvalidKeywordOrder: CodeInvalidKeywordOrder,
	ErrInvalidAmount:       CodeInvalidAmount,
	ErrUnsupportedCurrency: CodeUnsupportedCurrency,
	ErrInvalidAccountID:    CodeInvalidAccountID,
	ErrSameAccount:         CodeSameAccount,
	ErrAccountNotFound:     CodeAccountNotFound,
	ErrInvalidBalance:      CodeAccountNotFound,
	ErrCurrencyMismatch:    CodeCurrencyMismatch,
	ErrInvalidDate:         CodeInvalidDate,
	ErrInsufficientFunds:   CodeInsufficientFunds,
}

// InstructionError is a tagged pipeline failure. Reason is the text reported
// to the caller; Context holds the values established before the failure.
type InstructionError struct {
	Code    StatusCode
	Reason  string
	Context ValidationContext
	err     error
}

// NewInstructionError tags err with its status code. An empty reason falls back
// to the code's default message.
func NewInstructionError(err error, reason string) *InstructionError {
	code, ok := errorCodes[err]
	if !ok {
		code = CodeMalformed
	}
	if reason == "" {
		reason = code.Message()
	}
	return &InstructionError{Code: code, Reason: reason, err: err}
}

func (e *InstructionError) Error() string {
	return e.Reason
}

func (e *InstructionError) Unwrap() error {
	return e.err
}

// AsInstructionError extracts an *InstructionError from err. Any other error is
// reported as an unparseable instruction.
func AsInstructionError(err error) *InstructionError {
	var ie *InstructionError
	if errors.As(err, &ie) {
		return ie
	}
	return NewInstructionError(ErrUnparseable, "")
}
