package cli

import (
	"github.com/spf13/cobra"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Keep the model loaded and serve health, readiness, metrics and /v1/assess",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			if cfg.HealthcheckPort == 0 {
				return usageError(errHealthPortRequired)
			}
			a, err := startApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(cmd.Context())
		},
	}
}
