package main

import (
	"strings"
	"text/tabwriter"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/spf13/cobra"
)

func newMealsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Manage the meal catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List meals in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meals := a.svc.ListMeals()
			if len(meals) == 0 {
				a.printf("No meals yet.\n")
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, m := range meals {
				fmtRow(w, m.Name, strings.Join(m.Ingredients, ", "))
			}
			return w.Flush()
		},
	}

	var ingredients []string
	var ingredientsText string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a meal",
		Long: `Add a meal with its ingredients, given with repeated --ingredient flags or
as newline separated text with --text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := ingredients
			if len(items) == 0 {
				items = mealplan.ParseIngredients(ingredientsText)
			}
			m, err := a.svc.CreateMeal(cmd.Context(), mealplan.Meal{Name: args[0], Ingredients: items})
			if err != nil {
				return err
			}
			a.printf("Added %s (%d ingredients)\n", m.Name, len(m.Ingredients))
			return nil
		},
	}
	add.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "Ingredient, may be repeated")
	add.Flags().StringVar(&ingredientsText, "text", "", "Ingredients, one per line")

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.svc.FindMealByName(args[0])
			if err != nil {
				return err
			}
			a.printf("%s\n", m.Name)
			for _, ingredient := range m.Ingredients {
				a.printf("  - %s\n", ingredient)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a meal and remove it from the plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.svc.FindMealByName(args[0])
			if err != nil {
				return err
			}
			_, cleared, err := a.svc.DeleteMeal(cmd.Context(), m.ID)
			if err != nil {
				return err
			}
			a.printf("Deleted %s\n", m.Name)
			for _, d := range cleared {
				a.printf("  %s is now empty\n", d.Label())
			}
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename NAME NEW_NAME",
		Short: "Rename a meal, keeping it on the days it is planned",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.svc.FindMealByName(args[0])
			if err != nil {
				return err
			}
			renamed, err := a.svc.RenameMeal(cmd.Context(), m.ID, args[1])
			if err != nil {
				return err
			}
			a.printf("Renamed %s to %s\n", m.Name, renamed.Name)
			return nil
		},
	}

	cmd.AddCommand(list, add, show, rename, del)
	return cmd
}
