package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/paymentinstructions/internal/adapter/http/dto"
	"github.com/iho/paymentinstructions/internal/adapter/http/middleware"
	"github.com/iho/paymentinstructions/internal/domain"
	"github.com/iho/paymentinstructions/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "payment-instructions",
		Short:         "Payment instruction CLI tool",
		Long:          `Parse and process payment instructions locally, or submit them to a running service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newParseCmd(), newProcessCmd(), newSubmitCmd())
	return rootCmd
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <instruction>",
		Short: "Parse an instruction without validating it against accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			instr, err := domain.ParseInstruction(text)
			if err != nil {
				ie := domain.AsInstructionError(err)
				return fmt.Errorf("%s: %s", ie.Code, ie.Reason)
			}
			return printJSON(cmd.OutOrStdout(), parsedInstruction{
				Type:          string(instr.Type),
				Amount:        instr.Amount,
				Currency:      instr.Currency,
				DebitAccount:  instr.DebitAccountID,
				CreditAccount: instr.CreditAccountID,
				ExecuteBy:     instr.OnDate,
			})
		},
	}
}

// parsedInstruction is the raw grammar capture, before any validation.
type parsedInstruction struct {
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	DebitAccount  string `json:"debit_account"`
	CreditAccount string `json:"credit_account"`
	ExecuteBy     string `json:"execute_by,omitempty"`
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newProcessCmd() *cobra.Command {
	var (
		file string
		now  string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run a request body through the pipeline locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			var clock usecase.Clock = usecase.SystemClock{}
			if now != "" {
				t, err := time.Parse(domain.DateLayout, now)
				if err != nil {
					return fmt.Errorf("invalid --now date: %w", err)
				}
				clock = fixedClock{now: t}
			}

			body, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			uc := usecase.NewInstructionUseCase(clock, nil)
			ctx := cmd.Context()

			var result *usecase.Result
			req, err := dto.DecodePaymentInstructionRequest(bytes.NewReader(body))
			if err == nil {
				var input usecase.ProcessInput
				if input, err = req.ToUseCaseInput(); err == nil {
					result, _ = uc.Process(ctx, input)
				}
			}
			if err != nil {
				result, _ = uc.Reject(ctx, "", err.Error())
			}

			return printJSON(cmd.OutOrStdout(), dto.InstructionResponseFromResult(result))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Request body JSON file, - for stdin")
	cmd.Flags().StringVar(&now, "now", "", "Evaluate execute-by dates against this UTC day (YYYY-MM-DD)")
	return cmd
}

func newSubmitCmd() *cobra.Command {
	var (
		file           string
		baseURL        string
		idempotencyKey string
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a request body to a running service",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			req, err := http.NewRequest(http.MethodPost, strings.TrimSuffix(baseURL, "/")+"/payment-instructions", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			if idempotencyKey != "" {
				req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("error making request: %w", err)
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "HTTP %d\n", resp.StatusCode)
			if ref := resp.Header.Get("X-Instruction-Reference"); ref != "" {
				fmt.Fprintf(out, "Reference: %s\n", ref)
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
				fmt.Fprintln(out, string(respBody))
				return nil
			}
			fmt.Fprintln(out, pretty.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Request body JSON file, - for stdin")
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8811", "Base URL of the payment instructions service")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	body, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return body, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
