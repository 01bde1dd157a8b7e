package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	port           int
	postgresURL    string
	allowedOrigins []string
	joinBaseURL    string
	minPlayers     int
	advanceDelay   time.Duration
	debug          bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.postgresURL == "" {
		return errors.New("--postgres-url is required")
	}
	if len(c.allowedOrigins) == 0 {
		return errors.New("--allowed-origins is required")
	}
	if c.minPlayers < 2 {
		return fmt.Errorf("--min-players must be at least 2, got %d", c.minPlayers)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CARDCZAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "cardczar",
		Short:         "Game server for a judge-picks-the-best-card party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CARDCZAR_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5000, "port to listen on (env: CARDCZAR_PORT)")
	fs.StringVar(&cfg.postgresURL, "postgres-url", "", "postgres connection string (env: CARDCZAR_POSTGRES_URL)")
	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origins", nil, "origins allowed to connect (env: CARDCZAR_ALLOWED_ORIGINS)")
	fs.StringVar(&cfg.joinBaseURL, "join-base-url", "http://localhost:3000", "frontend base url used in join QR codes (env: CARDCZAR_JOIN_BASE_URL)")
	fs.IntVar(&cfg.minPlayers, "min-players", 3, "players required before the host can start (env: CARDCZAR_MIN_PLAYERS)")
	fs.DurationVar(&cfg.advanceDelay, "advance-delay", 3*time.Second, "pause between a winner announcement and the next round (env: CARDCZAR_ADVANCE_DELAY)")
	fs.BoolVarP(&cfg.debug, "debug", "d", false, "enable debug logging (env: CARDCZAR_DEBUG)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}
