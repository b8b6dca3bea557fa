package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/pocketspice/internal/app"
)

var Version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	prefsPath  string
	mock       bool
	ephemeral  bool
	json       bool
	verbose    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pocketspice: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	var refresh time.Duration

	rootCmd := &cobra.Command{
		Use:           "pocketspice",
		Short:         "Browse and manage My Pocket Spice recipes from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := g.options(cmd)
			// The TUI owns the terminal; logs go to the file only.
			opts.Console = nil
			opts.RefreshEvery = refresh
			return app.Run(cmd.Context(), opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.config/pocketspice/config.toml)")
	pf.StringVar(&g.prefsPath, "prefs", "", "preferences file (default ~/.config/pocketspice/prefs.toml)")
	pf.BoolVar(&g.mock, "mock", false, "serve built-in fixtures instead of calling the backend")
	pf.BoolVar(&g.ephemeral, "ephemeral", false, "keep session tokens in memory only")
	pf.BoolVar(&g.json, "json", false, "print results as JSON")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "mirror log output to stderr")
	rootCmd.Flags().DurationVar(&refresh, "refresh", 0, "background refresh interval for the recipe list (default 1m)")

	rootCmd.AddCommand(loginCmd(g))
	rootCmd.AddCommand(registerCmd(g))
	rootCmd.AddCommand(logoutCmd(g))
	rootCmd.AddCommand(whoamiCmd(g))
	rootCmd.AddCommand(recipesCmd(g))
	rootCmd.AddCommand(matchCmd(g))
	rootCmd.AddCommand(checkCmd(g))
	rootCmd.AddCommand(logsCmd(g))

	return rootCmd
}

// options turns the global flags into app.Options. --mock only overrides the
// config when given explicitly.
func (g *globalFlags) options(cmd *cobra.Command) app.Options {
	opts := app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		Ephemeral:  g.ephemeral,
	}
	if cmd.Flags().Changed("mock") {
		mock := g.mock
		opts.Mock = &mock
	}
	if g.verbose {
		opts.Console = cmd.ErrOrStderr()
	}
	return opts
}

// withEnv bootstraps the application for one command and tears it down after.
func (g *globalFlags) withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *app.Env) error) error {
	env, err := app.Bootstrap(g.options(cmd))
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(cmd.Context(), env)
}

// errFailedCheck marks a command that printed its own failure report.
var errFailedCheck = errors.New("one or more checks failed")
