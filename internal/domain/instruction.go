package domain

import "strings"

// InstructionType is the verb an instruction starts with.
type InstructionType string

const (
	InstructionDebit  InstructionType = "DEBIT"
	InstructionCredit InstructionType = "CREDIT"
)

// Instruction holds the raw fields recognized by Parse. None of the values have
// been validated; Currency is already upper-cased. OnDate is empty when the
// ON suffix is absent or has no value.
type Instruction struct {
	Type            InstructionType
	Amount          string
	Currency        string
	DebitAccountID  string
	CreditAccountID string
	OnDate          string
}

// slotKind tells the matcher what to do with a token position.
type slotKind int

const (
	slotLiteral slotKind = iota
	slotAmount
	slotCurrency
	slotDebitAccount
	slotCreditAccount
)

type slot struct {
	kind    slotKind
	literal string
}

func literal(word string) slot { return slot{kind: slotLiteral, literal: word} }

// grammars maps every verb to its fixed token layout after the verb itself.
var grammars = map[InstructionType][]slot{
	InstructionDebit: {
		{kind: slotAmount},
		{kind: slotCurrency},
		literal("FROM"),
		literal("ACCOUNT"),
		{kind: slotDebitAccount},
		literal("FOR"),
		literal("CREDIT"),
		literal("TO"),
		literal("ACCOUNT"),
		{kind: slotCreditAccount},
	},
	InstructionCredit: {
		{kind: slotAmount},
		{kind: slotCurrency},
		literal("TO"),
		literal("ACCOUNT"),
		{kind: slotCreditAccount},
		literal("FOR"),
		literal("DEBIT"),
		literal("FROM"),
		literal("ACCOUNT"),
		{kind: slotDebitAccount},
	},
}

const (
	// MinInstructionTokens is the verb plus the ten slots of every grammar.
	MinInstructionTokens = 11
	onKeyword            = "ON"
)

// ParseInstruction tokenizes text and recognizes it.
func ParseInstruction(text string) (*Instruction, error) {
	return Parse(Tokenize(text))
}

// Parse matches tokens against the grammar of their verb. On SY01 and SY02
// the returned instruction carries only the type; on SY03 it is nil.
func Parse(tokens []string) (*Instruction, error) {
	if len(tokens) == 0 {
		return nil, NewInstructionError(ErrUnparseable, "")
	}

	verb := InstructionType(strings.ToUpper(tokens[0]))
	grammar, ok := grammars[verb]
	if !ok {
		return nil, NewInstructionError(ErrUnparseable, "")
	}

	if len(tokens) < MinInstructionTokens {
		return &Instruction{Type: verb}, NewInstructionError(ErrMissingKeyword, "")
	}

	instr := &Instruction{Type: verb}
	for i, s := range grammar {
		token := tokens[i+1]
		switch s.kind {
		case slotLiteral:
			if !strings.EqualFold(token, s.literal) {
				return &Instruction{Type: verb}, NewInstructionError(ErrInvalidKeywordOrder, "")
			}
		case slotAmount:
			instr.Amount = token
		case slotCurrency:
			instr.Currency = strings.ToUpper(token)
		case slotDebitAccount:
			instr.DebitAccountID = token
		case slotCreditAccount:
			instr.CreditAccountID = token
		}
	}

	if len(tokens) > MinInstructionTokens && strings.EqualFold(tokens[MinInstructionTokens], onKeyword) {
		if len(tokens) > MinInstructionTokens+1 {
			instr.OnDate = tokens[MinInstructionTokens+1]
		}
	}

	return instr, nil
}
