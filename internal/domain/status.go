package domain

import "net/http"

// StatusCode is the stable identifier attached to every instruction outcome.
type StatusCode string

const (
	CodeExecuted            StatusCode = "AP00"
	CodeScheduled           StatusCode = "AP02"
	CodeInvalidAmount       StatusCode = "AM01"
	CodeInsufficientFunds   StatusCode = "AC01"
	CodeSameAccount         StatusCode = "AC02"
	CodeAccountNotFound     StatusCode = "AC03"
	CodeInvalidAccountID    StatusCode = "AC04"
	CodeCurrencyMismatch    StatusCode = "CU01"
	CodeUnsupportedCurrency StatusCode = "CU02"
	CodeInvalidDate         StatusCode = "DT01"
	CodeMissingKeyword      StatusCode = "SY01"
	CodeInvalidKeywordOrder StatusCode = "SY02"
	CodeMalformed           StatusCode = "SY03"
)

var messages = map[StatusCode]string{
	CodeExecuted:            "Transaction executed successfully",
	CodeScheduled:           "Transaction scheduled for future execution",
	CodeInvalidAmount:       "Amount must be a positive integer",
	CodeInsufficientFunds:   "Insufficient funds in debit account",
	CodeSameAccount:         "Debit and credit accounts cannot be the same",
	CodeAccountNotFound:     "Account not found",
	CodeInvalidAccountID:    "Invalid account ID format (letters, numbers, hyphen, period, @ allowed)",
	CodeCurrencyMismatch:    "Account currency mismatch",
	CodeUnsupportedCurrency: "Unsupported currency. Only NGN, USD, GBP, and GHS are supported",
	CodeInvalidDate:         "Invalid date format. Expected YYYY-MM-DD",
	CodeMissingKeyword:      "Missing required keyword",
	CodeInvalidKeywordOrder: "Invalid keyword order",
	CodeMalformed:           "Malformed instruction: unable to parse keywords",
}

// Message returns the default human-readable text for the code.
// Unknown codes fall back to the SY03 text.
func (c StatusCode) Message() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return messages[CodeMalformed]
}

// Known reports whether c belongs to the fixed code table.
func (c StatusCode) Known() bool {
	_, ok := messages[c]
	return ok
}

// Status returns the outcome status implied by the code.
func (c StatusCode) Status() Status {
	switch c {
	case CodeExecuted:
		return StatusSuccessful
	case CodeScheduled:
		return StatusPending
	default:
		return StatusFailed
	}
}

// StatusCodes lists every code in table order.
func StatusCodes() []StatusCode {
	return []StatusCode{
		CodeExecuted, CodeScheduled, CodeInvalidAmount,
		CodeInsufficientFunds, CodeSameAccount, CodeAccountNotFound, CodeInvalidAccountID,
		CodeCurrencyMismatch, CodeUnsupportedCurrency, CodeInvalidDate,
		CodeMissingKeyword, CodeInvalidKeywordOrder, CodeMalformed,
	}
}

// Status is the coarse outcome of processing an instruction.
type Status string

const (
	StatusSuccessful Status = "successful"
	StatusPending    Status = "pending"
	StatusFailed     Status = "failed"
)

// HTTPStatus maps the outcome onto the transport status code.
func (s Status) HTTPStatus() int {
	if s == StatusFailed {
		return http.StatusBadRequest
	}
	return http.StatusOK
}
