package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/pocketspice/internal/app"
	"github.com/five82/pocketspice/internal/config"
	"github.com/five82/pocketspice/internal/httpclient"
)

func checkCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the configured backend and its auth routes",
		Long: `Check that the backend answers on /recipes/ and that the auth routes
are deployed. The auth probe posts throwaway credentials to /auth/register/;
a 400 validation error means the route exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			opts := []httpclient.Option{httpclient.WithTimeout(cfg.Timeout), httpclient.WithUserAgent("pocketspice-check/" + Version)}
			results := []app.ProbeResult{
				app.CheckBackend(cmd.Context(), cfg.APIBaseURL, opts...),
				app.CheckAuthEndpoint(cmd.Context(), cfg.APIBaseURL, opts...),
			}

			if g.json {
				if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, r := range results {
					mark := "FAIL"
					if r.OK {
						mark = "ok"
					}
					fmt.Fprintf(out, "%-4s  %s\n      %s\n", mark, r.URL, r.Message)
				}
			}

			for _, r := range results {
				if !r.OK {
					return errFailedCheck
				}
			}
			return nil
		},
	}
}
