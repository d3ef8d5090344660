package dto

import "github.com/iho/paymentinstructions/internal/usecase"

// AccountSnapshotResponse represents one touched account in API responses.
type AccountSnapshotResponse = usecase.SnapshotView

// InstructionResponse is the uniform body returned for every processed
// instruction, whatever stage terminated it.
type InstructionResponse = usecase.PayloadView

// InstructionResponseFromResult converts a use case result to a response.
func InstructionResponseFromResult(r *usecase.Result) *InstructionResponse {
	return r.Payload.View()
}

// ErrorResponse represents an error outside the instruction envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
