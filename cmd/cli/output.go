package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/iho/treasury/internal/adapter/http/dto"
)

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printAccounts(w io.Writer, accounts []*dto.AccountResponse) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tACTIVE\tBALANCE")
	for _, acc := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", acc.Code, truncate(acc.Name, 40), acc.Type, acc.Active, acc.Balance)
	}
	return tw.Flush()
}

func printBalance(w io.Writer, b *dto.BalanceResponse) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Account:\t%s (%s)\n", b.AccountCode, b.AccountType)
	fmt.Fprintf(tw, "Balance:\t%s\n", b.Balance)
	if b.AsOf != nil {
		fmt.Fprintf(tw, "As of:\t%s\n", b.AsOf.Format("2006-01-02T15:04:05Z07:00"))
	}
	return tw.Flush()
}

func printBudgetReport(w io.Writer, r *dto.BudgetReportResponse) error {
	if r.FiscalYear != nil {
		fmt.Fprintf(w, "Fiscal year %s (%s to %s)\n\n", r.FiscalYear.Name,
			r.FiscalYear.StartDate.Format("2006-01-02"), r.FiscalYear.EndDate.Format("2006-01-02"))
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tBUDGETED\tACTUAL\tVARIANCE\t")
	for _, row := range r.Rows {
		marker := ""
		if row.Unbudgeted {
			marker = "unbudgeted"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.AccountCode, truncate(row.AccountName, 30), row.AccountType, row.Budgeted, row.Actual, row.Variance, marker)
	}

	types := make([]string, 0, len(r.Totals))
	for t := range r.Totals {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		total := r.Totals[t]
		fmt.Fprintf(tw, "\tTotal %s\t\t%s\t%s\t%s\t\n", t, total.Budgeted, total.Actual, total.Variance)
	}

	return tw.Flush()
}

func printConsistency(w io.Writer, r *dto.ConsistencyResponse) error {
	if r.Consistent {
		fmt.Fprintln(w, "Consistency check PASSED")
	} else {
		fmt.Fprintln(w, "Consistency check FAILED")
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "Sum of lines:\t%s\n", r.TotalLines)
	fmt.Fprintf(tw, "Sum of balances:\t%s\n", r.TotalBalances)
	return tw.Flush()
}

func printReconciliation(w io.Writer, r *dto.ReconciliationResponse) error {
	fmt.Fprintf(w, "%d of %d accounts reconciled\n", r.ReconciledAccounts, r.TotalAccounts)
	if len(r.Discrepancies) == 0 {
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tRECORDED\tCALCULATED\tDIFFERENCE")
	for _, d := range r.Discrepancies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.AccountCode, d.RecordedBalance, d.CalculatedBalance, d.Difference)
	}
	return tw.Flush()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
