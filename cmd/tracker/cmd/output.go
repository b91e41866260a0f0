package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"tracker/internal/core"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type transactionRow struct {
	Position int    `json:"position" yaml:"position"`
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Amount   string `json:"amount" yaml:"amount"`
	Category string `json:"category" yaml:"category"`
	Type     string `json:"type" yaml:"type"`
	Date     string `json:"date" yaml:"date"`
}

type categoryTotalRow struct {
	Category string `json:"category" yaml:"category"`
	Type     string `json:"type" yaml:"type"`
	Amount   string `json:"amount" yaml:"amount"`
}

type summaryView struct {
	Count         int                `json:"count" yaml:"count"`
	TotalIncome   string             `json:"totalIncome" yaml:"totalIncome"`
	TotalExpenses string             `json:"totalExpenses" yaml:"totalExpenses"`
	TotalBalance  string             `json:"totalBalance" yaml:"totalBalance"`
	ByCategory    []categoryTotalRow `json:"byCategory" yaml:"byCategory"`
}

func newTransactionRow(position int, tx core.Transaction) transactionRow {
	return transactionRow{
		Position: position,
		ID:       tx.ID.String(),
		Title:    tx.Title,
		Amount:   core.FormatAmount(tx.Amount),
		Category: tx.Category.String(),
		Type:     string(tx.Type()),
		Date:     tx.Date.String(),
	}
}

// rowsFor renders the filtered records with their 1-based positions in the
// full ledger.
func rowsFor(ledger, filtered []core.Transaction) []transactionRow {
	positions := make(map[string]int, len(ledger))
	for i, tx := range ledger {
		positions[tx.ID.String()] = i + 1
	}
	rows := make([]transactionRow, 0, len(filtered))
	for _, tx := range filtered {
		rows = append(rows, newTransactionRow(positions[tx.ID.String()], tx))
	}
	return rows
}

func newSummaryView(t core.Totals) summaryView {
	view := summaryView{
		Count:         t.Count,
		TotalIncome:   core.FormatAmount(t.TotalIncome),
		TotalExpenses: core.FormatAmount(t.TotalExpenses),
		TotalBalance:  core.FormatAmount(t.TotalBalance),
		ByCategory:    make([]categoryTotalRow, 0, len(t.ByCategory)),
	}
	for _, c := range t.ByCategory {
		view.ByCategory = append(view.ByCategory, categoryTotalRow{
			Category: c.Category.String(),
			Type:     string(c.Category.Type()),
			Amount:   core.FormatAmount(c.Amount),
		})
	}
	return view
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: expected table, json or yaml", format)
	}
}

// encode writes v as JSON or YAML. It reports false for the table format so
// callers fall through to their own tabular rendering.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func renderTransactions(w io.Writer, format string, rows []transactionRow) error {
	if done, err := encode(w, format, rows); done {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No transactions.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tTITLE\tCATEGORY\tTYPE\tAMOUNT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.Position, r.Date, r.Title, r.Category, r.Type, r.Amount)
	}
	return tw.Flush()
}

func renderTransaction(w io.Writer, format string, row transactionRow) error {
	if done, err := encode(w, format, row); done {
		return err
	}
	_, err := fmt.Fprintf(w, "#%d %s %s %s (%s) %s\n", row.Position, row.Date, row.Title, row.Amount, row.Category, row.Type)
	return err
}

func renderSummary(w io.Writer, format string, view summaryView) error {
	if done, err := encode(w, format, view); done {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Transactions:\t%d\n", view.Count)
	fmt.Fprintf(tw, "Income:\t%s\n", view.TotalIncome)
	fmt.Fprintf(tw, "Expenses:\t%s\n", view.TotalExpenses)
	fmt.Fprintf(tw, "Balance:\t%s\n", view.TotalBalance)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CATEGORY\tTYPE\tAMOUNT")
	for _, c := range view.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Category, c.Type, c.Amount)
	}
	return tw.Flush()
}
