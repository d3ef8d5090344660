package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/paymentinstructions/internal/domain"
)

// InstructionUseCase sequences parsing, validation, execution and formatting
// of a payment instruction.
type InstructionUseCase struct {
	executor *Executor
	rules    []domain.Rule
	idGen    IDGenerator
	clock    Clock
	audit    AuditRecorder
}

// InstructionOption configures an InstructionUseCase.
type InstructionOption func(*InstructionUseCase)

// WithAuditRecorder records every processed instruction.
func WithAuditRecorder(audit AuditRecorder) InstructionOption {
	return func(uc *InstructionUseCase) {
		uc.audit = audit
	}
}

// WithRules replaces the default validation chain.
func WithRules(rules []domain.Rule) InstructionOption {
	return func(uc *InstructionUseCase) {
		uc.rules = rules
	}
}

// NewInstructionUseCase creates a new InstructionUseCase.
func NewInstructionUseCase(clock Clock, idGen IDGenerator, opts ...InstructionOption) *InstructionUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	uc := &InstructionUseCase{
		executor: NewExecutor(clock),
		rules:    domain.ValidationRules(),
		idGen:    idGen,
		clock:    clock,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessInput is a single request: the instruction text and the accounts it
// may reference.
type ProcessInput struct {
	Instruction string
	Accounts    []domain.Account
}

// AuditEntry is what an AuditRecorder persists for one processed instruction.
type AuditEntry struct {
	ID          string
	Instruction string
	Result      *Result
	CreatedAt   time.Time
}

// Process runs the pipeline. The returned Result is never nil. A non-nil error
// only reports a failed audit write; the Result is still valid in that case.
func (uc *InstructionUseCase) Process(ctx context.Context, input ProcessInput) (*Result, error) {
	return uc.finish(ctx, input.Instruction, uc.run(input))
}

// Reject produces the SY03 result for a request whose shape was invalid, so
// it is referenced and audited like any processed instruction.
func (uc *InstructionUseCase) Reject(ctx context.Context, instruction, reason string) (*Result, error) {
	return uc.finish(ctx, instruction, RequestRejected(reason))
}

func (uc *InstructionUseCase) finish(ctx context.Context, instruction string, result *Result) (*Result, error) {
	if uc.idGen != nil {
		result.Reference = uc.idGen.Generate()
	}

	if uc.audit == nil {
		return result, nil
	}

	auditCtx, cancel := context.WithTimeout(ctx, DefaultAuditTimeout)
	defer cancel()

	err := uc.audit.Record(auditCtx, &AuditEntry{
		ID:          result.Reference,
		Instruction: instruction,
		Result:      result,
		CreatedAt:   uc.clock.Now().UTC(),
	})
	return result, err
}

func (uc *InstructionUseCase) run(input ProcessInput) *Result {
	parsed, err := domain.ParseInstruction(input.Instruction)
	if err != nil {
		return uc.parseFailure(parsed, err)
	}

	validated, err := domain.ValidateWith(uc.rules, parsed, input.Accounts)
	if err != nil {
		return uc.validationFailure(parsed, err, input.Accounts)
	}

	execution := uc.executor.Execute(
		input.Accounts,
		validated.DebitAccountID,
		validated.CreditAccountID,
		validated.Amount,
		validated.ExecuteBy,
	)

	amount := validated.Amount
	return FormatResponse(ResponseInput{
		HTTPStatus:      execution.HTTPStatus,
		Type:            validated.Type,
		Amount:          &amount,
		Currency:        validated.Currency,
		DebitAccountID:  validated.DebitAccountID,
		CreditAccountID: validated.CreditAccountID,
		ExecuteBy:       validated.ExecuteBy,
		Status:          execution.Status,
		StatusReason:    execution.StatusReason,
		StatusCode:      execution.StatusCode,
		Accounts:        execution.Accounts,
	})
}

// parseFailure reports a structural error. The parser keeps nothing but the
// verb, so the payload carries only the type.
func (uc *InstructionUseCase) parseFailure(parsed *domain.Instruction, err error) *Result {
	ie := domain.AsInstructionError(err)
	in := ResponseInput{StatusCode: ie.Code, StatusReason: ie.Reason}
	if parsed != nil {
		in.Type = parsed.Type
	}
	return failed(in)
}

func (uc *InstructionUseCase) validationFailure(parsed *domain.Instruction, err error, accounts []domain.Account) *Result {
	ie := domain.AsInstructionError(err)
	ctx := ie.Context
	debitID, creditID := deref(ctx.DebitAccountID), deref(ctx.CreditAccountID)

	return failed(ResponseInput{
		Type:            parsed.Type,
		Amount:          ctx.Amount,
		Currency:        deref(ctx.Currency),
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		ExecuteBy:       deref(ctx.ExecuteBy),
		StatusCode:      ie.Code,
		StatusReason:    ie.Reason,
		Accounts:        domain.BuildSnapshots(accounts, debitID, creditID),
	})
}

func failed(in ResponseInput) *Result {
	in.HTTPStatus = http.StatusBadRequest
	in.Status = domain.StatusFailed
	return FormatResponse(in)
}
