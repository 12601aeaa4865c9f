package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/treasury/internal/adapter/http/dto"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// errLedgerInconsistent is returned after an inconsistent report is printed.
var errLedgerInconsistent = errors.New("ledger is inconsistent")

type app struct {
	baseURL string
	timeout time.Duration
	output  string
	token   string
	out     io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "treasury-cli",
		Short:         "Treasury ledger CLI tool",
		Long:          `A command line interface for the treasury ledger API and its database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.output != outputTable && a.output != outputJSON {
				return fmt.Errorf("--output must be %s or %s", outputTable, outputJSON)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.baseURL, "url", "http://localhost:8080", "Base URL of the treasury API")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "Output format: table or json")
	rootCmd.PersistentFlags().StringVar(&a.token, "token", os.Getenv("TREASURY_TOKEN"), "Bearer token when the API requires authentication")

	rootCmd.AddCommand(
		a.accountsCmd(),
		a.balanceCmd(),
		a.budgetCmd(),
		a.ledgerCmd(),
		a.migrateCmd(),
		a.idempotencyCmd(),
		a.tokenCmd(),
	)

	return rootCmd
}

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Body.Error == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Body.Error, e.Body.Message, e.Status)
}

// call performs a request against the API and decodes a JSON answer into
// out. The raw body is returned so json output can print it unchanged.
func (a *app) call(ctx context.Context, method, path string, query url.Values, out any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	target := strings.TrimRight(a.baseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(body, &apiErr.Body)
		return body, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return body, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return body, nil
}
