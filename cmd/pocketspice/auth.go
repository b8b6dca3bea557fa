package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/pocketspice/internal/app"
	"github.com/five82/pocketspice/internal/session"
	"github.com/five82/pocketspice/internal/spice"
)

// readPassword takes the password from the flag, or the first line of stdin
// when passwordStdin is set.
func readPassword(in io.Reader, flagValue string, passwordStdin bool) (string, error) {
	if !passwordStdin {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCmd(g *globalFlags) *cobra.Command {
	var username, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin(), password, passwordStdin)
			if err != nil {
				return err
			}
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				req := spice.LoginRequest{Username: strings.TrimSpace(username), Password: pw}
				if err := env.Session.Login(ctx, req); err != nil {
					return userError(env.Logger, session.OpLogin, err)
				}
				return reportUser(cmd, g, env)
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func registerCmd(g *globalFlags) *cobra.Command {
	var req spice.RegisterRequest
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin(), req.Password, passwordStdin)
			if err != nil {
				return err
			}
			req.Password = pw
			if req.PasswordConfirm == "" {
				req.PasswordConfirm = pw
			}
			req.Username = strings.TrimSpace(req.Username)
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				if err := env.Session.Register(ctx, req); err != nil {
					return userError(env.Logger, session.OpRegister, err)
				}
				return reportUser(cmd, g, env)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.Username, "username", "u", "", "account username")
	f.StringVarP(&req.Password, "password", "p", "", "account password (prefer --password-stdin)")
	f.StringVar(&req.PasswordConfirm, "password-confirm", "", "password confirmation (defaults to the password)")
	f.BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func logoutCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				env.Session.Logout(ctx)
				if g.json {
					return writeJSON(cmd.OutOrStdout(), map[string]bool{"authenticated": false})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

func whoamiCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				env.Session.Initialize(ctx)
				return reportUser(cmd, g, env)
			})
		},
	}
}

// whoamiResult is the --json shape of login, register and whoami.
type whoamiResult struct {
	Authenticated bool        `json:"authenticated"`
	User          *spice.User `json:"user,omitempty"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
}

func reportUser(cmd *cobra.Command, g *globalFlags, env *app.Env) error {
	snap := env.Session.Snapshot()
	res := whoamiResult{Authenticated: snap.Authenticated, User: snap.User}
	if exp, ok := env.Session.AccessExpiry(); ok {
		res.ExpiresAt = &exp
	}

	out := cmd.OutOrStdout()
	if g.json {
		return writeJSON(out, res)
	}
	if res.User == nil {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(out, "Signed in as %s (%s)\n", res.User.DisplayName(), res.User.Username)
	if res.User.Email != "" {
		fmt.Fprintf(out, "Email: %s\n", res.User.Email)
	}
	if res.ExpiresAt != nil {
		fmt.Fprintf(out, "Access token expires %s\n", res.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}
