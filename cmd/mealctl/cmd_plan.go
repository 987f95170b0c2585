package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/spf13/cobra"
)

func fmtRow(w io.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show and edit the weekly plan",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the week, Monday to Sunday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, d := range a.svc.Plan().Days {
				meal := "-"
				if d.Assigned() {
					meal = d.MealName
				}
				fmtRow(w, d.Label, meal)
			}
			return w.Flush()
		},
	}

	assign := &cobra.Command{
		Use:   "assign DAY MEAL",
		Short: "Plan a meal on a day",
		Long:  "Plan a meal on a day. A meal name that is not in the catalog empties the day.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := mealplan.ParseDay(args[0])
			if err != nil {
				return err
			}
			v, err := a.svc.Assign(cmd.Context(), day, args[1])
			if err != nil {
				return err
			}
			if !v.Assigned() {
				a.printf("No meal named %q, %s is now empty\n", args[1], v.Label)
				return nil
			}
			a.printf("%s: %s\n", v.Label, v.MealName)
			return nil
		},
	}

	unassign := &cobra.Command{
		Use:   "unassign DAY",
		Short: "Empty a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := mealplan.ParseDay(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Unassign(cmd.Context(), day); err != nil {
				return err
			}
			a.printf("%s is now empty\n", day.Label())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the whole week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.svc.ClearPlan(cmd.Context())
			a.printf("Plan cleared\n")
			return nil
		},
	}

	cmd.AddCommand(show, assign, unassign, clearCmd)
	return cmd
}
