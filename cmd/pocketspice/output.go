package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/five82/pocketspice/internal/session"
	"github.com/five82/pocketspice/internal/spice"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// userError logs err and returns the message a user should see for it.
func userError(logger zerolog.Logger, op session.Op, err error) error {
	logger.Debug().Err(err).Str("op", string(op)).Msg("command failed")
	return errors.New(session.UserMessage(op, err))
}

func writePage(w io.Writer, title string, page spice.RecipePage, current int) error {
	fmt.Fprintf(w, "%s (page %d, %d total)\n\n", title, current, page.Count)
	if len(page.Results) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSKILL\tPREP")
	for _, r := range page.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Title, dash(r.Category.Name), dash(r.SkillLevel.Level), minutes(r.PreparationDuration))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var nav []string
	if page.HasPrevious() {
		nav = append(nav, fmt.Sprintf("previous: --page %d", current-1))
	}
	if page.HasNext() {
		nav = append(nav, fmt.Sprintf("next: --page %d", current+1))
	}
	if len(nav) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Join(nav, "  "))
	}
	return nil
}

func writeDetail(w io.Writer, d spice.RecipeDetail) {
	fmt.Fprintf(w, "#%d %s\n", d.ID, d.Title)
	fmt.Fprintf(w, "Category:  %s\n", dash(d.Category.Name))
	fmt.Fprintf(w, "Skill:     %s\n", dash(d.SkillLevel.Level))
	fmt.Fprintf(w, "Prep time: %s\n", minutes(d.PreparationDuration))
	if d.Servings != nil {
		fmt.Fprintf(w, "Serves:    %d\n", *d.Servings)
	}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		fmt.Fprintf(w, "\n%s\n", desc)
	}

	fmt.Fprintln(w, "\nIngredients:")
	for _, ri := range d.RecipeIngredients {
		if q := strings.TrimSpace(ri.Quantity); q != "" {
			fmt.Fprintf(w, "  - %s (%s)\n", ri.Ingredient.Name, q)
		} else {
			fmt.Fprintf(w, "  - %s\n", ri.Ingredient.Name)
		}
	}

	fmt.Fprintln(w, "\nSteps:")
	for _, step := range d.Instructions {
		fmt.Fprintf(w, "  %d. %s\n", step.StepNumber, strings.TrimSpace(step.Content))
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func minutes(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d min", n)
}
