package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/treasury/internal/adapter/http/dto"
)

func (a *app) accountsCmd() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}

	var accountType string
	var inactive bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"limit": {"1000"}}
			if accountType != "" {
				query.Set("type", accountType)
			}
			if !inactive {
				query.Set("active", "true")
			}

			var resp dto.ListAccountsResponse
			raw, err := a.call(cmd.Context(), http.MethodGet, "/api/v1/accounts", query, &resp)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return printJSON(a.out, raw)
			}
			return printAccounts(a.out, resp.Accounts)
		},
	}
	listCmd.Flags().StringVar(&accountType, "type", "", "Only accounts of this type")
	listCmd.Flags().BoolVar(&inactive, "all", false, "Include inactive accounts")

	accountsCmd.AddCommand(listCmd)
	return accountsCmd
}

func (a *app) balanceCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance <account-code>",
		Short: "Show the balance of an account, optionally as of a past instant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if asOf != "" {
				if _, err := time.Parse(time.RFC3339, asOf); err != nil {
					return fmt.Errorf("--as-of must be RFC3339: %w", err)
				}
				query.Set("as_of", asOf)
			}

			var resp dto.BalanceResponse
			raw, err := a.call(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/balance", query, &resp)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return printJSON(a.out, raw)
			}
			return printBalance(a.out, &resp)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "Instant (RFC3339) to compute the balance at")

	return cmd
}

func (a *app) budgetCmd() *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget reporting",
	}

	reportCmd := &cobra.Command{
		Use:   "report <fiscal-year-id>",
		Short: "Budget versus actual for a fiscal year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.BudgetReportResponse
			raw, err := a.call(cmd.Context(), http.MethodGet, "/api/v1/fiscal-years/"+url.PathEscape(args[0])+"/budget-vs-actual", nil, &resp)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return printJSON(a.out, raw)
			}
			return printBudgetReport(a.out, &resp)
		},
	}

	budgetCmd.AddCommand(reportCmd)
	return budgetCmd
}

func (a *app) ledgerCmd() *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ConsistencyResponse
			raw, err := a.call(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, &resp)

			// An inconsistent ledger answers 409 with the report as body.
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && apiErr.Body.Error == "" {
				if jsonErr := json.Unmarshal(raw, &resp); jsonErr == nil {
					err = nil
				}
			}
			if err != nil {
				return err
			}

			if a.output == outputJSON {
				err = printJSON(a.out, raw)
			} else {
				err = printConsistency(a.out, &resp)
			}
			if err != nil {
				return err
			}
			if !resp.Consistent {
				return errLedgerInconsistent
			}
			return nil
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare cached balances against the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.reconcile(cmd, http.MethodGet, "/api/v1/ledger/balances/verify")
		},
	}

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute cached balances from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.reconcile(cmd, http.MethodPost, "/api/v1/ledger/balances/rebuild")
		},
	}

	ledgerCmd.AddCommand(consistencyCmd, verifyCmd, rebuildCmd)
	return ledgerCmd
}

func (a *app) reconcile(cmd *cobra.Command, method, path string) error {
	var resp dto.ReconciliationResponse
	raw, err := a.call(cmd.Context(), method, path, nil, &resp)
	if err != nil {
		return err
	}
	if a.output == outputJSON {
		return printJSON(a.out, raw)
	}
	return printReconciliation(a.out, &resp)
}
