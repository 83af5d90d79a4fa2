package cli

import (
	"fmt"
	"slices"
	"strings"

	"expense-cli/internal/export"
	"expense-cli/internal/tracker"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		title, description string
		amount             float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.tracker().Add(title, description, amount)
			if err != nil {
				return unexpected(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expense added successfully (ID: %d)\n", e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title of the expense")
	cmd.Flags().StringVar(&description, "description", "", "Description of the expense")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount of the expense")
	for _, name := range []string{"title", "description", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.tracker().Delete(id)
			if err != nil {
				return unexpected(err)
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Error: Expense with ID %d not found\n", id)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Expense deleted successfully")
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "ID of the expense to delete")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		id                 int64
		title, description string
		amount             float64
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f tracker.UpdateFields
			flags := cmd.Flags()
			if flags.Changed("title") {
				f.Title = &title
			}
			if flags.Changed("description") {
				f.Description = &description
			}
			if flags.Changed("amount") {
				f.Amount = &amount
			}
			out := cmd.OutOrStdout()
			if f.Title == nil && f.Description == nil && f.Amount == nil {
				fmt.Fprintln(out, "Error: Please provide at least one of --title, --description or --amount")
				return nil
			}

			ok, err := a.tracker().Update(id, f)
			if err != nil {
				return unexpected(err)
			}
			if !ok {
				fmt.Fprintf(out, "Error: Expense with ID %d not found\n", id)
				return nil
			}
			fmt.Fprintln(out, "Expense updated successfully")
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "ID of the expense")
	cmd.Flags().StringVar(&title, "title", "", "New title for the expense")
	cmd.Flags().StringVar(&description, "description", "", "New description for the expense")
	cmd.Flags().Float64Var(&amount, "amount", 0, "New amount for the expense")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printExpenses(out, a.tracker().List(), terminalWidth(out))
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var month int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show summary of expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("month") {
				total, err := a.tracker().Total(0)
				if err != nil {
					return unexpected(err)
				}
				fmt.Fprintf(out, "Total expenses: %s\n", formatCurrency(total))
				return nil
			}

			if month < 1 || month > 12 {
				fmt.Fprintln(out, "Error: Month must be between 1 and 12")
				return nil
			}
			total, err := a.tracker().Total(month)
			if err != nil {
				return unexpected(err)
			}
			fmt.Fprintf(out, "Total expenses for %s: %s\n", monthName(month), formatCurrency(total))
			return nil
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "Month number (1-12) for monthly summary")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to another format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if !slices.Contains(export.Formats, format) {
				return fmt.Errorf("unsupported format %q, expected one of %s", format, strings.Join(export.Formats, ", "))
			}

			expenses := a.tracker().List()
			if err := export.ToFile(out, format, expenses); err != nil {
				return unexpected(err)
			}
			a.opts.Logger.Info().Str("format", format).Str("path", out).Int("count", len(expenses)).Msg("exported expenses")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d expenses to %s\n", len(expenses), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Export format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVar(&out, "out", "", "Destination file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
