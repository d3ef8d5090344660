package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationContext holds the values known when the chain stopped. The account
// ids and the raw execute-by date come from the parsed instruction; Amount and
// Currency are set by their rules, and ExecuteBy is cleared when the date is
// invalid.
type ValidationContext struct {
	Amount          *decimal.Decimal
	Currency        *string
	DebitAccountID  *string
	CreditAccountID *string
	ExecuteBy       *string
}

// ValidationState is threaded through every rule of a chain.
type ValidationState struct {
	Instruction *Instruction
	Accounts    []Account
	Context     ValidationContext

	DebitAccount  *Account
	CreditAccount *Account
	DebitBalance  decimal.Decimal
	CreditBalance decimal.Decimal
}

// Rule is one step of the validation chain. Check returns a tagged
// *InstructionError, or nil to let the chain continue.
type Rule struct {
	Name  string
	Check func(s *ValidationState) error
}

// ValidatedInstruction is the output of a chain that passed every rule.
type ValidatedInstruction struct {
	Type            InstructionType
	Amount          decimal.Decimal
	Currency        string
	DebitAccountID  string
	CreditAccountID string
	ExecuteBy       string
	DebitAccount    *Account
	CreditAccount   *Account
}

// ValidationRules returns the business rules in evaluation order. Later rules
// rely on state recorded by earlier ones, so the order is part of the contract.
func ValidationRules() []Rule {
	return []Rule{
		{Name: "amount", Check: checkAmount},
		{Name: "currency", Check: checkCurrency},
		{Name: "account-id-format", Check: checkAccountIDFormat},
		{Name: "distinct-accounts", Check: checkDistinctAccounts},
		{Name: "accounts-exist", Check: checkAccountsExist},
		{Name: "account-currency", Check: checkAccountCurrency},
		{Name: "execute-by-date", Check: checkExecuteBy},
		{Name: "account-balance", Check: checkBalances},
		{Name: "sufficient-funds", Check: checkSufficientFunds},
	}
}

// Validate runs the default rule chain over a parsed instruction.
func Validate(instr *Instruction, accounts []Account) (*ValidatedInstruction, error) {
	return ValidateWith(ValidationRules(), instr, accounts)
}

// ValidateWith runs rules in order and stops at the first failure. The
// returned *InstructionError carries the context accumulated up to that rule.
func ValidateWith(rules []Rule, instr *Instruction, accounts []Account) (*ValidatedInstruction, error) {
	if instr == nil {
		return nil, NewInstructionError(ErrUnparseable, "")
	}

	state := &ValidationState{Instruction: instr, Accounts: accounts}
	state.Context.DebitAccountID = nonEmpty(instr.DebitAccountID)
	state.Context.CreditAccountID = nonEmpty(instr.CreditAccountID)
	state.Context.ExecuteBy = nonEmpty(instr.OnDate)

	for _, rule := range rules {
		if err := rule.Check(state); err != nil {
			ie := AsInstructionError(err)
			ie.Context = state.Context
			return nil, ie
		}
	}

	v := &ValidatedInstruction{
		Type:          instr.Type,
		DebitAccount:  state.DebitAccount,
		CreditAccount: state.CreditAccount,
	}
	ctx := state.Context
	if ctx.Amount != nil {
		v.Amount = *ctx.Amount
	}
	if ctx.Currency != nil {
		v.Currency = *ctx.Currency
	}
	if ctx.DebitAccountID != nil {
		v.DebitAccountID = *ctx.DebitAccountID
	}
	if ctx.CreditAccountID != nil {
		v.CreditAccountID = *ctx.CreditAccountID
	}
	if ctx.ExecuteBy != nil {
		v.ExecuteBy = *ctx.ExecuteBy
	}

	return v, nil
}

func checkAmount(s *ValidationState) error {
	amount, ok := ParsePositiveInteger(s.Instruction.Amount)
	if !ok {
		return NewInstructionError(ErrInvalidAmount, "")
	}
	s.Context.Amount = &amount
	return nil
}

func checkCurrency(s *ValidationState) error {
	currency := NormalizeCurrency(s.Instruction.Currency)
	if currency == "" {
		return NewInstructionError(ErrUnsupportedCurrency, "")
	}
	s.Context.Currency = &currency
	if !IsSupportedCurrency(currency) {
		return NewInstructionError(ErrUnsupportedCurrency, "")
	}
	return nil
}

func checkAccountIDFormat(s *ValidationState) error {
	if !IsValidAccountID(s.Instruction.DebitAccountID) || !IsValidAccountID(s.Instruction.CreditAccountID) {
		return NewInstructionError(ErrInvalidAccountID, "")
	}
	return nil
}

func checkDistinctAccounts(s *ValidationState) error {
	if s.Instruction.DebitAccountID == s.Instruction.CreditAccountID {
		return NewInstructionError(ErrSameAccount, "")
	}
	return nil
}

func checkAccountsExist(s *ValidationState) error {
	debitID, creditID := s.Instruction.DebitAccountID, s.Instruction.CreditAccountID

	s.DebitAccount = FindAccount(s.Accounts, debitID)
	if s.DebitAccount == nil {
		return NewInstructionError(ErrAccountNotFound, fmt.Sprintf("%s: %s", CodeAccountNotFound.Message(), debitID))
	}

	s.CreditAccount = FindAccount(s.Accounts, creditID)
	if s.CreditAccount == nil {
		return NewInstructionError(ErrAccountNotFound, fmt.Sprintf("%s: %s", CodeAccountNotFound.Message(), creditID))
	}
	return nil
}

func checkAccountCurrency(s *ValidationState) error {
	debitCurrency := s.DebitAccount.NormalizedCurrency()
	creditCurrency := s.CreditAccount.NormalizedCurrency()
	msg := CodeCurrencyMismatch.Message()

	if debitCurrency == "" || creditCurrency == "" {
		return NewInstructionError(ErrCurrencyMismatch, "")
	}

	if debitCurrency != creditCurrency {
		return NewInstructionError(ErrCurrencyMismatch, fmt.Sprintf("%s: %s=%s, %s=%s",
			msg, s.DebitAccount.ID, debitCurrency, s.CreditAccount.ID, creditCurrency))
	}

	if instrCurrency := *s.Context.Currency; debitCurrency != instrCurrency {
		return NewInstructionError(ErrCurrencyMismatch, fmt.Sprintf(
			"%s: instruction currency %s differs from account currency %s", msg, instrCurrency, debitCurrency))
	}
	return nil
}

func checkExecuteBy(s *ValidationState) error {
	if s.Instruction.OnDate == "" {
		return nil
	}

	date, ok := ParseExecuteDate(s.Instruction.OnDate)
	if !ok {
		s.Context.ExecuteBy = nil
		return NewInstructionError(ErrInvalidDate, "")
	}
	s.Context.ExecuteBy = &date
	return nil
}

func checkBalances(s *ValidationState) error {
	msg := CodeAccountNotFound.Message()

	debit, ok := s.DebitAccount.NumericBalance()
	if !ok {
		return NewInstructionError(ErrInvalidBalance, msg+": invalid balance for debit account")
	}

	credit, ok := s.CreditAccount.NumericBalance()
	if !ok {
		return NewInstructionError(ErrInvalidBalance, msg+": invalid balance for credit account")
	}

	s.DebitBalance, s.CreditBalance = debit, credit
	return nil
}

func checkSufficientFunds(s *ValidationState) error {
	amount := *s.Context.Amount
	if s.DebitBalance.LessThan(amount) {
		return NewInstructionError(ErrInsufficientFunds, fmt.Sprintf("%s: %s has %s, needs %s",
			CodeInsufficientFunds.Message(), s.DebitAccount.ID, s.DebitBalance.String(), amount.String()))
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
