package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/paymentinstructions/internal/adapter/http/dto"
	"github.com/iho/paymentinstructions/internal/infrastructure/metrics"
	"github.com/iho/paymentinstructions/internal/usecase"
)

// ReferenceHeader carries the reference assigned to a processed instruction.
const ReferenceHeader = "X-Instruction-Reference"

const maxRequestBodyBytes = 1 << 20

// InstructionProcessor runs payment instructions.
type InstructionProcessor interface {
	Process(ctx context.Context, input usecase.ProcessInput) (*usecase.Result, error)
	Reject(ctx context.Context, instruction, reason string) (*usecase.Result, error)
}

// InstructionHandler handles payment instruction requests.
type InstructionHandler struct {
	processor InstructionProcessor
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewInstructionHandler creates a new InstructionHandler. m may be nil.
func NewInstructionHandler(processor InstructionProcessor, logger zerolog.Logger, m *metrics.Metrics) *InstructionHandler {
	return &InstructionHandler{processor: processor, logger: logger, metrics: m}
}

// Process handles POST /payment-instructions. Every outcome, including a
// malformed body, is answered with the instruction envelope.
func (h *InstructionHandler) Process(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var (
		result   *usecase.Result
		err      error
		accounts int
	)

	req, decodeErr := dto.DecodePaymentInstructionRequest(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if decodeErr == nil {
		accounts = req.AccountsCount()
		h.logger.Debug().Int("accounts_count", accounts).Msg("process-payment-instruction received")

		var input usecase.ProcessInput
		input, decodeErr = req.ToUseCaseInput()
		if decodeErr == nil {
			result, err = h.processor.Process(ctx, input)
		}
	}

	if decodeErr != nil {
		var reqErr *dto.RequestError
		reason := dto.ErrPayloadNotObject.Reason
		if errors.As(decodeErr, &reqErr) {
			reason = reqErr.Reason
		}

		instruction := ""
		if req != nil {
			instruction = req.RawInstruction()
		}
		h.metrics.ObserveRejection()
		result, err = h.processor.Reject(ctx, instruction, reason)
	}

	if err != nil {
		h.metrics.ObserveAuditError()
		h.logger.Warn().
			Err(err).
			Str("reference", result.Reference).
			Msg("failed to record instruction audit")
	}

	elapsed := time.Since(start)
	p := result.Payload
	h.metrics.ObserveInstruction(string(p.Status), string(p.StatusCode), deref(p.Currency), amountOf(result), elapsed)

	h.logger.Info().
		Str("reference", result.Reference).
		Str("status", string(p.Status)).
		Str("status_code", string(p.StatusCode)).
		Int("accounts_count", accounts).
		Float64("duration_ms", float64(elapsed.Microseconds())/1000).
		Msg("process-payment-instruction completed")

	if result.Reference != "" {
		w.Header().Set(ReferenceHeader, result.Reference)
	}
	writeJSON(w, result.HTTPStatus, dto.InstructionResponseFromResult(result))
}

func amountOf(r *usecase.Result) float64 {
	if r.Payload.Amount == nil {
		return -1
	}
	return r.Payload.Amount.InexactFloat64()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
