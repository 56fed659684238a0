package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specialistvlad/elevendx/internal/app"
	"github.com/specialistvlad/elevendx/internal/evidence"
	"github.com/specialistvlad/elevendx/internal/nodeid"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath      string
	networks        []string
	source          string
	embedded        string
	trials          int
	workers         int
	seed            uint64
	logLevel        string
	logFormat       string
	healthcheckPort int
	watch           bool
}

func (o *globalOptions) register(fs *pflag.FlagSet) {
	d := app.DefaultConfig()
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML configuration file.")
	fs.StringArrayVarP(&o.networks, "network", "n", nil, "Path to a .hcl network file or directory (repeatable). Implies --source=hcl.")
	fs.StringVar(&o.source, "source", d.Source, "Graph source: 'hcl', 'embedded' or 'supabase'.")
	fs.StringVar(&o.embedded, "embedded", d.Network, "Name of the built-in network to use with --source=embedded.")
	fs.IntVar(&o.trials, "trials", d.Inference.Trials, "Number of likelihood-weighting trials per query.")
	fs.IntVar(&o.workers, "workers", d.Inference.Workers, "Sampling workers. 0 uses GOMAXPROCS.")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed. 0 draws a fresh seed for every run.")
	fs.StringVar(&o.logLevel, "log-level", d.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&o.logFormat, "log-format", d.LogFormat, "Log output format. Options: 'text' or 'json'.")
	fs.IntVar(&o.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	fs.BoolVar(&o.watch, "watch", false, "Reload the network when its .hcl files change.")
}

// config resolves defaults < YAML file < environment < flags.
func (o *globalOptions) config(cmd *cobra.Command) (*app.Config, error) {
	cfg := app.DefaultConfig()
	if o.configPath != "" {
		if err := app.LoadConfigFile(o.configPath, &cfg); err != nil {
			return nil, usageError(err)
		}
	}
	app.ApplyEnv(&cfg, os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("network") {
		cfg.NetworkPaths = o.networks
		cfg.Source = app.SourceHCL
	}
	if flags.Changed("embedded") {
		cfg.Network = o.embedded
		if !flags.Changed("network") {
			cfg.Source = app.SourceEmbedded
		}
	}
	if flags.Changed("source") {
		cfg.Source = o.source
	}
	if flags.Changed("trials") {
		cfg.Inference.Trials = o.trials
	}
	if flags.Changed("workers") {
		cfg.Inference.Workers = o.workers
	}
	if flags.Changed("seed") {
		cfg.Inference.Seed = o.seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed("healthcheck-port") {
		cfg.HealthcheckPort = o.healthcheckPort
	}
	if flags.Changed("watch") {
		cfg.Watch = o.watch
	}

	valid, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return valid, nil
}

// start builds the App and loads the model. Logs go to the command's error
// stream so stdout carries only results.
func (o *globalOptions) start(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	return startApp(cmd, cfg)
}

func startApp(cmd *cobra.Command, cfg *app.Config) (*app.App, error) {
	a, err := app.NewApp(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Start(cmd.Context()); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// evidenceFlag adds -e/--evidence to cmd.
func evidenceFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringArrayVarP(target, "evidence", "e", nil, "Observation as id=value; repeatable, or comma separated.")
}

func parseEvidence(raw []string) (map[string]string, error) {
	m, err := nodeid.ParseAssignments(raw)
	if err != nil {
		return nil, usageError(fmt.Errorf("--evidence: %w", err))
	}
	return m, nil
}

// evidenceError turns evidence the network rejects into a usage error.
func evidenceError(err error) error {
	if errors.Is(err, evidence.ErrInvalidEvidence) {
		return usageError(err)
	}
	return err
}

var errHealthPortRequired = errors.New("serve needs a health check port: set --healthcheck-port or healthcheck_port in --config")
