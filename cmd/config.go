package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/TopiaNetwork/contractconf/codec"
	"github.com/TopiaNetwork/contractconf/compiler"
	tpconfig "github.com/TopiaNetwork/contractconf/configuration"
	tplog "github.com/TopiaNetwork/contractconf/log"
	tplogcmm "github.com/TopiaNetwork/contractconf/log/common"
	"github.com/TopiaNetwork/contractconf/probe"
)

const (
	configFuncName = "config"
	configCmdDes   = "Inspect, validate and probe the toolchain configuration."
)

var configPath string
var envFile string
var logLevel string
var logFormat string

var outputFormat string
var showNetwork string
var probeNetwork string
var probeTimeout time.Duration
var compilerName string
var availableReleases []string

func newLogger() (tplog.Logger, tplogcmm.LogLevel, error) {
	level, err := tplogcmm.ParseLogLevel(logLevel)
	if err != nil {
		return nil, tplogcmm.NoLevel, err
	}
	format, err := tplog.ParseLogFormat(logFormat)
	if err != nil {
		return nil, tplogcmm.NoLevel, err
	}

	log, err := tplog.CreateMainLogger(level, format, tplog.StdErrOutput, "")
	if err != nil {
		return nil, tplogcmm.NoLevel, err
	}
	return log, level, nil
}

func loadConfiguration(log tplog.Logger) (*tpconfig.Configuration, error) {
	opts := []tpconfig.Option{
		tpconfig.WithLogger(log),
		tpconfig.WithEnvLookup(os.LookupEnv),
	}
	if envFile != "" {
		opts = append(opts, tpconfig.WithEnvFile(envFile))
	}

	if configPath == "" {
		return tpconfig.LoadDefault(opts...)
	}
	return tpconfig.Load(configPath, opts...)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("trailing args detected")
	}
	// Parsing of the command line is done so silence cmd usage
	cmd.SilenceUsage = true
	return nil
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Prints the loaded configuration.",
		Long:  `Prints the whole configuration record, or a single network profile when --network is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := noArgs(cmd, args); err != nil {
				return err
			}

			codecType, err := codec.ParseCodecType(outputFormat)
			if err != nil {
				return err
			}

			log, _, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := loadConfiguration(log)
			if err != nil {
				return err
			}

			if showNetwork == "" {
				return cfg.Encode(codecType, cmd.OutOrStdout())
			}

			profile, err := cfg.Get(showNetwork)
			if err != nil {
				return err
			}
			return codec.CreateEncoder(codecType, cmd.OutOrStdout()).Encode(profile)
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validates the configuration.",
		Long:  `Loads the configuration and lists every problem found; exits non-zero when there is any.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := noArgs(cmd, args); err != nil {
				return err
			}

			log, _, err := newLogger()
			if err != nil {
				return err
			}

			cfg, err := loadConfiguration(log)
			var cErr *tpconfig.ConfigurationError
			if errors.As(err, &cErr) {
				for _, p := range cErr.Problems() {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
				}
				return fmt.Errorf("configuration %s has %d problem(s)", cErr.Source, len(cErr.Problems()))
			} else if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok networks=%v compilers=%v fingerprint=%s\n",
				cfg.NetworkNames(), cfg.CompilerNames(), cfg.Fingerprint().Hex())
			return nil
		},
	}
}

func newConfigProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Checks that a network's node is reachable.",
		Long:  `Dials the node of a configured network and compares its network id with the configured one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := noArgs(cmd, args); err != nil {
				return err
			}

			log, level, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := loadConfiguration(log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()

			res, err := probe.NewProber(level, log).CheckNetwork(ctx, cfg, probeNetwork)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s network_id=%s chain_id=%v elapsed=%s\n",
				res.Network, res.Endpoint, res.NetworkID, res.ChainID, res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
}

func newConfigCompilerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compiler",
		Short: "Prints the compiler pin.",
		Long:  `Prints the configured compiler version and, given --available releases, the release it resolves to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := noArgs(cmd, args); err != nil {
				return err
			}

			log, _, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := loadConfiguration(log)
			if err != nil {
				return err
			}

			var profile tpconfig.CompilerProfile
			if compilerName == "" {
				profile, err = cfg.DefaultCompiler()
			} else {
				profile, err = cfg.Compiler(compilerName)
			}
			if err != nil {
				return err
			}

			pin, err := compiler.ParsePin(profile.Version)
			if err != nil {
				return err
			}

			if len(availableReleases) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", pin, pin.Kind)
				return nil
			}

			release, err := pin.Resolve(availableReleases)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) -> %s\n", pin, pin.Kind, release)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	c := newConfigShowCmd()
	flags := c.Flags()
	flags.StringVarP(&showNetwork, "network", "n", "", "print only this network profile")
	flags.StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	return c
}

func probeCmd() *cobra.Command {
	c := newConfigProbeCmd()
	flags := c.Flags()
	flags.StringVarP(&probeNetwork, "network", "n", "development", "the network to probe")
	flags.DurationVarP(&probeTimeout, "timeout", "", probe.DefaultTimeout, "how long to wait for the node")
	return c
}

func compilerCmd() *cobra.Command {
	c := newConfigCompilerCmd()
	flags := c.Flags()
	flags.StringVarP(&compilerName, "name", "", "", "the compiler to print, default compiler when empty")
	flags.StringSliceVarP(&availableReleases, "available", "", nil, "releases to resolve the pin against")
	return c
}

// ConfigCmd builds a fresh command tree; flag values reset to their
// defaults on every call.
func ConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   configFuncName,
		Short: fmt.Sprint(configCmdDes),
		Long:  fmt.Sprint(configCmdDes),
	}

	flags := configCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "configuration file (.json, .yaml); the bundled development configuration when empty")
	flags.StringVarP(&envFile, "env-file", "", "", "dotenv file with CONTRACTCONF_* overrides")
	flags.StringVarP(&logLevel, "log-level", "", "info", "log level: trace, debug, info, warn, error")
	flags.StringVarP(&logFormat, "log-format", "", "text", "log format: text or json")

	configCmd.AddCommand(showCmd(), newConfigValidateCmd(), probeCmd(), compilerCmd())

	return configCmd
}
