package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/wheelsim/internal/config"
	"github.com/aretw0/wheelsim/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wheelsim",
	Short: "wheelsim simulates a wheelchair's onboard controller",
	Long: `wheelsim stands in for the onboard controller of a BCI-driven wheelchair.
It speaks the JSON control protocol over ZeroMQ or Redis so a Brain-Computer
Interface can be developed and tested without the chair.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}

// addGlobalFlags registers the configuration flags every command accepts.
func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "YAML configuration file")
	flags.StringSlice("env-file", nil, "dotenv files to load (default .env when present)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: auto, text or json")

	flags.String("transport", "", "transport: zmq or redis")
	flags.String("endpoint", "", "ZeroMQ endpoint (the chair binds, the BCI connects)")
	flags.String("redis-url", "", "Redis URL for the redis transport")
	flags.String("redis-prefix", "", "prefix of the Redis list keys")
	flags.Duration("claim-ttl", 0, "lifetime of the Redis controller claim between renewals")
}

// loadConfig layers defaults, the config file, the environment and the flags that
// were explicitly set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")

	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	setString := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	setString("log-level", &cfg.LogLevel)
	setString("log-format", &cfg.LogFormat)
	setString("transport", &cfg.Transport)
	setString("endpoint", &cfg.Endpoint)
	setString("redis-url", &cfg.RedisURL)
	setString("redis-prefix", &cfg.RedisPrefix)
	setString("status-addr", &cfg.StatusAddr)

	if flags.Changed("claim-ttl") {
		cfg.ClaimTTL, _ = flags.GetDuration("claim-ttl")
	}
	if flags.Changed("interval") {
		cfg.PollInterval, _ = flags.GetDuration("interval")
	}
	if flags.Changed("drain") {
		cfg.Drain, _ = flags.GetBool("drain")
	}
	if flags.Changed("arrival-ticks") {
		cfg.ArrivalTicks, _ = flags.GetInt("arrival-ticks")
	}
	if flags.Changed("ticks-per-node") {
		cfg.TicksPerNode, _ = flags.GetInt("ticks-per-node")
	}
	if flags.Changed("announce-stop") {
		cfg.AnnounceStop, _ = flags.GetBool("announce-stop")
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format), nil
}

// addSimulationFlags registers the flags shared by commands that run the engine.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int("arrival-ticks", 0, "ticks needed to reach any node")
	cmd.Flags().Int("ticks-per-node", 0, "extra ticks per unit of node number")
	cmd.Flags().Bool("announce-stop", false, "send STOPPED after FINISHED")
}
