/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Seednode/whosthat/games/guess"
)

type Config struct {
	bind           string
	cache          string
	logFile        string
	logMaxBackups  int
	logMaxSize     int
	port           int
	prefix         string
	profile        bool
	questions      int
	roster         string
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return c.validateGame()
}

// validateGame covers the flags shared with the play subcommand.
func (c *Config) validateGame() error {
	if c.questions < 1 {
		return fmt.Errorf("invalid question budget (must be at least 1): %d", c.questions)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	if c.logFile != "" && c.logMaxSize < 1 {
		return fmt.Errorf("invalid log size (must be at least 1 MB): %d", c.logMaxSize)
	}
	if c.logMaxBackups < 0 {
		return fmt.Errorf("invalid log backup count (must not be negative): %d", c.logMaxBackups)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func normalizeFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WHOSTHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "whosthat",
		Short:         "A creature guessing game that asks the questions, served as a webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}

			closer := configureLogging(cfg)
			defer closer.Close()

			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	normalizeFlags(pfs)

	pfs.StringVar(&cfg.cache, "cache", "", "path to a sqlite file for caching the enriched roster (env: WHOSTHAT_CACHE)")
	pfs.StringVar(&cfg.logFile, "log-file", "", "write logs to this file, rotating by size (env: WHOSTHAT_LOG_FILE)")
	pfs.IntVar(&cfg.logMaxBackups, "log-max-backups", 3, "rotated log files to keep (env: WHOSTHAT_LOG_MAX_BACKUPS)")
	pfs.IntVar(&cfg.logMaxSize, "log-max-size", 10, "size in megabytes before the log file is rotated (env: WHOSTHAT_LOG_MAX_SIZE)")
	pfs.IntVarP(&cfg.questions, "questions", "q", guess.DefaultBudget, "maximum questions asked per game (env: WHOSTHAT_QUESTIONS)")
	pfs.StringVarP(&cfg.roster, "roster", "r", "", "path to a yaml, json or toml roster file, reloaded on change (env: WHOSTHAT_ROSTER)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: WHOSTHAT_VERBOSE)")

	fs := cmd.Flags()
	normalizeFlags(fs)

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: WHOSTHAT_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: WHOSTHAT_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: WHOSTHAT_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: WHOSTHAT_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are ended (env: WHOSTHAT_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: WHOSTHAT_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: WHOSTHAT_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: WHOSTHAT_VERSION)")

	bindFlags(v, pfs)
	bindFlags(v, fs)

	cmd.AddCommand(newPlayCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("whosthat v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func newPlayCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play one game in the terminal.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateGame(); err != nil {
				return err
			}

			closer := configureLogging(cfg)
			defer closer.Close()

			return playGame(cmd.Context(), cfg, huhPrompter{}, cmd.OutOrStdout())
		},
	}
}
