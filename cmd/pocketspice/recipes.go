package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/pocketspice/internal/app"
	"github.com/five82/pocketspice/internal/session"
	"github.com/five82/pocketspice/internal/spice"
	"github.com/five82/pocketspice/internal/state"
)

func recipesCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List, search and create recipes",
	}
	cmd.AddCommand(recipesListCmd(g))
	cmd.AddCommand(recipesSearchCmd(g))
	cmd.AddCommand(recipesCategoryCmd(g))
	cmd.AddCommand(recipesShowCmd(g))
	cmd.AddCommand(recipesCreateCmd(g))
	return cmd
}

// pageFlags are the paging options shared by listing commands.
type pageFlags struct {
	page     int
	pageSize int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.pageSize, "page-size", 0, "results per page (default: your saved preference)")
}

// runListing fetches one page of l and prints it.
func (g *globalFlags) runListing(cmd *cobra.Command, p pageFlags, l state.Listing) error {
	return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
		l.Page = p.page
		l.PageSize = p.pageSize
		if l.PageSize <= 0 {
			l.PageSize = env.Prefs.PageSize
		}
		page, err := state.Fetch(ctx, env.API, l)
		if err != nil {
			return userError(env.Logger, session.OpLoad, err)
		}
		if g.json {
			return writeJSON(cmd.OutOrStdout(), page)
		}
		return writePage(cmd.OutOrStdout(), l.Title(), page, l.CurrentPage())
	})
}

func recipesListCmd(g *globalFlags) *cobra.Command {
	var p pageFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runListing(cmd, p, state.Listing{Mode: state.ModeAll})
		},
	}
	p.register(cmd)
	return cmd
}

func recipesSearchCmd(g *globalFlags) *cobra.Command {
	var p pageFlags
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search recipe titles",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runListing(cmd, p, state.Listing{Mode: state.ModeSearch, Query: strings.Join(args, " ")})
		},
	}
	p.register(cmd)
	return cmd
}

func recipesCategoryCmd(g *globalFlags) *cobra.Command {
	var p pageFlags
	cmd := &cobra.Command{
		Use:   "category <name>",
		Short: "List recipes in a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runListing(cmd, p, state.Listing{Mode: state.ModeCategory, Category: strings.Join(args, " ")})
		},
	}
	p.register(cmd)
	return cmd
}

func recipesShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				detail, err := env.API.Recipe(ctx, id)
				if err != nil {
					return userError(env.Logger, session.OpLoad, err)
				}
				if g.json {
					return writeJSON(cmd.OutOrStdout(), detail)
				}
				writeDetail(cmd.OutOrStdout(), detail)
				return nil
			})
		},
	}
}

func recipesCreateCmd(g *globalFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create --file recipe.json",
		Short: "Create a recipe from a JSON file (requires login)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := readRecipe(cmd, file)
			if err != nil {
				return err
			}
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				if env.API.Token() == "" {
					return fmt.Errorf("creating recipes requires a session; run pocketspice login first")
				}
				created, err := env.API.CreateRecipe(ctx, recipe)
				if err != nil {
					return userError(env.Logger, session.OpCreate, err)
				}
				if g.json {
					return writeJSON(cmd.OutOrStdout(), created)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q.\n", created.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `recipe JSON ("-" for stdin)`)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readRecipe(cmd *cobra.Command, path string) (spice.RecipeCreate, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return spice.RecipeCreate{}, fmt.Errorf("read recipe: %w", err)
	}
	var recipe spice.RecipeCreate
	if err := json.Unmarshal(data, &recipe); err != nil {
		return spice.RecipeCreate{}, fmt.Errorf("parse recipe: %w", err)
	}
	if strings.TrimSpace(recipe.Title) == "" {
		return spice.RecipeCreate{}, fmt.Errorf("recipe title is required")
	}
	return recipe, nil
}

func matchCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "match <ingredient>...",
		Short: "Find a recipe for the ingredients you have",
		Long: `Ask the backend which recipe best uses the given ingredients.
Arguments are joined with commas, so both of these work:

  pocketspice match rice mushrooms
  pocketspice match "rice, mushrooms"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients := strings.Join(args, ", ")
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				res, err := env.API.MatchRecipe(ctx, ingredients)
				if err != nil {
					return userError(env.Logger, session.OpMatch, err)
				}
				if g.json {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "#%d %s (%s)\n\n%s\n", res.Recipe.ID, res.Recipe.Title, minutes(res.Recipe.PreparationDuration), res.Justification)
				return nil
			})
		},
	}
}
