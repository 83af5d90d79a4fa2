package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"expense-cli/internal/models"

	"golang.org/x/term"
)

const (
	idWidth     = 4
	dateWidth   = 12
	descWidth   = 20
	amountWidth = 10
	ruleWidth   = 50
)

func formatCurrency(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func monthName(month int) string {
	return time.Month(month).String()
}

// terminalWidth returns the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// printExpenses writes the expense table. With a known terminal width the
// description column grows to fill the line and longer text is cut.
func printExpenses(w io.Writer, expenses []models.Expense, width int) {
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses found.")
		return
	}

	desc, rule, truncate := descWidth, ruleWidth, false
	if fixed := idWidth + dateWidth + amountWidth + 3; width > fixed+descWidth {
		desc, rule, truncate = width-fixed, width, true
	}

	fmt.Fprintf(w, "%-*s %-*s %-*s %-*s\n", idWidth, "ID", dateWidth, "Date", desc, "Description", amountWidth, "Amount")
	fmt.Fprintln(w, strings.Repeat("-", rule))
	for _, e := range expenses {
		d := e.Description
		if truncate {
			d = cut(d, desc)
		}
		fmt.Fprintf(w, "%-*d %-*s %-*s %-*s\n", idWidth, e.ID, dateWidth, e.Date, desc, d, amountWidth, formatCurrency(e.Amount))
	}
}

func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
