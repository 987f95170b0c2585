package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/shopping"
	"github.com/spf13/cobra"
)

func newShoppingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Build and tick off the shopping list",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Rebuild the list from the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(a, a.svc.GenerateShoppingList(cmd.Context()))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(a, a.svc.ShoppingList())
			return nil
		},
	}

	check := &cobra.Command{
		Use:   "check N",
		Short: "Tick off item N as shown by 'shopping show'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggle(a, cmd, args[0], true)
		},
	}

	uncheck := &cobra.Command{
		Use:   "uncheck N",
		Short: "Clear the tick of item N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggle(a, cmd, args[0], false)
		},
	}

	clearChecked := &cobra.Command{
		Use:   "clear-checked",
		Short: "Remove ticked items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("Removed %d item(s)\n", a.svc.ClearChecked(cmd.Context()))
			return nil
		},
	}

	var format, output string
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Write the list as PDF or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := shopping.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := shopping.NewPrinter().Render(f, a.svc.ShoppingList(), a.svc.Plan())
			if err != nil {
				return err
			}
			if output == "" {
				output = "shopping-list." + f
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			a.printf("Wrote %s\n", output)
			return nil
		},
	}
	printCmd.Flags().StringVar(&format, "format", shopping.FormatPDF, "Output format: pdf|csv")
	printCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: shopping-list.<format>)")

	cmd.AddCommand(generate, show, check, uncheck, clearChecked, printCmd)
	return cmd
}

func toggle(a *app, cmd *cobra.Command, arg string, checked bool) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("item number must be an integer: %q", arg)
	}
	var item mealplan.ShoppingItem
	if checked {
		item, err = a.svc.CheckAt(cmd.Context(), n-1)
	} else {
		item, err = a.svc.UncheckAt(cmd.Context(), n-1)
	}
	if err != nil {
		return err
	}
	a.printf("%s %s\n", box(item.Checked), item.Display())
	return nil
}

func printList(a *app, list mealplan.ShoppingList) {
	if list.Empty() {
		a.printf("%s\n", shopping.EmptyListMessage(a.svc.Plan()))
		return
	}
	for i, item := range list.Items {
		a.printf("%2d. %s %s\n", i+1, box(item.Checked), item.Display())
	}
}

func box(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}
