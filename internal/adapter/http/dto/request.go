package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iho/paymentinstructions/internal/domain"
	"github.com/iho/paymentinstructions/internal/usecase"
)

// RequestError describes a request body that does not have the expected
// shape. Reason is reported verbatim as the status reason.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) *RequestError {
	return &RequestError{Reason: fmt.Sprintf(format, args...)}
}

// ErrPayloadNotObject is returned when the body is not a JSON object.
var ErrPayloadNotObject = &RequestError{Reason: "Payload must be a JSON object."}

// PaymentInstructionRequest is the body of POST /payment-instructions. Fields
// stay raw until ToUseCaseInput checks their JSON types.
type PaymentInstructionRequest struct {
	Accounts    json.RawMessage `json:"accounts"`
	Instruction json.RawMessage `json:"instruction"`
}

// DecodePaymentInstructionRequest reads a request body. Anything other than a
// single JSON object yields ErrPayloadNotObject.
func DecodePaymentInstructionRequest(r io.Reader) (*PaymentInstructionRequest, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil || jsonKind(raw) != '{' {
		return nil, ErrPayloadNotObject
	}

	var req PaymentInstructionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, ErrPayloadNotObject
	}
	return &req, nil
}

// RawInstruction returns the instruction text when it is a JSON string.
func (r *PaymentInstructionRequest) RawInstruction() string {
	s, _ := decodeString(r.Instruction)
	return s
}

// AccountsCount reports how many entries the accounts field holds, or zero
// when it is not an array.
func (r *PaymentInstructionRequest) AccountsCount() int {
	var items []json.RawMessage
	if jsonKind(r.Accounts) != '[' || json.Unmarshal(r.Accounts, &items) != nil {
		return 0
	}
	return len(items)
}

// ToUseCaseInput validates the request shape and converts it to use case input.
func (r *PaymentInstructionRequest) ToUseCaseInput() (usecase.ProcessInput, error) {
	var items []json.RawMessage
	if jsonKind(r.Accounts) != '[' || json.Unmarshal(r.Accounts, &items) != nil || len(items) == 0 {
		return usecase.ProcessInput{}, invalid("accounts must be a non-empty array.")
	}

	accounts := make([]domain.Account, 0, len(items))
	for i, item := range items {
		account, err := decodeAccount(i, item)
		if err != nil {
			return usecase.ProcessInput{}, err
		}
		accounts = append(accounts, account)
	}

	instruction, ok := decodeString(r.Instruction)
	instruction = strings.TrimSpace(instruction)
	if !ok || instruction == "" {
		return usecase.ProcessInput{}, invalid("instruction must be a non-empty string.")
	}

	return usecase.ProcessInput{Instruction: instruction, Accounts: accounts}, nil
}

func decodeAccount(index int, raw json.RawMessage) (domain.Account, error) {
	var fields map[string]json.RawMessage
	if jsonKind(raw) != '{' || json.Unmarshal(raw, &fields) != nil {
		return domain.Account{}, invalid("accounts[%d] must be an object.", index)
	}

	id, ok := decodeString(fields["id"])
	if !ok || strings.TrimSpace(id) == "" {
		return domain.Account{}, invalid("accounts[%d].id must be a non-empty string.", index)
	}

	balance, ok := decodeBalance(fields["balance"])
	if !ok {
		return domain.Account{}, invalid("accounts[%d].balance must be a finite number.", index)
	}

	currency, ok := decodeString(fields["currency"])
	if !ok || strings.TrimSpace(currency) == "" {
		return domain.Account{}, invalid("accounts[%d].currency must be a non-empty string.", index)
	}

	return domain.Account{ID: id, Balance: balance, Currency: currency}, nil
}

// decodeBalance accepts a JSON number, kept as its literal text, or a JSON
// string. Whether a string is numeric is decided later by the validator.
func decodeBalance(raw json.RawMessage) (string, bool) {
	switch kind := jsonKind(raw); {
	case kind == '"':
		return decodeString(raw)
	case kind == '-' || (kind >= '0' && kind <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		return n.String(), true
	default:
		return "", false
	}
}

func decodeString(raw json.RawMessage) (string, bool) {
	if jsonKind(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// jsonKind returns the first significant byte of a JSON value, or 0.
func jsonKind(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
