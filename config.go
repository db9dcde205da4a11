/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/partylobby/games"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	content        string
	ghostTick      time.Duration
	joinGrace      time.Duration
	port           int
	prefix         string
	profile        bool
	publicURL      string
	rounds         int
	sessionTimeout time.Duration
	spriteTick     time.Duration
	static         string
	submitTimeout  time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
	voteTimeout    time.Duration
}

func (c *Config) validate() error {
	switch {
	case (c.tlsCert == "") != (c.tlsKey == ""):
		return errors.New("both --tls-cert and --tls-key must be provided together")
	case c.port < 1 || c.port > 65535:
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	case c.rounds < 1:
		return fmt.Errorf("invalid round count (must be at least 1): %d", c.rounds)
	case c.spriteTick <= 0 || c.ghostTick <= 0:
		return errors.New("--sprite-tick and --ghost-tick must be positive")
	case c.joinGrace < 0 || c.submitTimeout < 0 || c.voteTimeout < 0 || c.sessionTimeout < 0:
		return errors.New("timeouts must not be negative")
	}

	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// options translates the pacing flags for the game server.
func (c *Config) options() games.Options {
	return games.Options{
		RoundLimit:     c.rounds,
		JoinGrace:      c.joinGrace,
		SubmitTimeout:  c.submitTimeout,
		VoteTimeout:    c.voteTimeout,
		SessionTimeout: c.sessionTimeout,
		SpriteTick:     c.spriteTick,
		GhostTick:      c.ghostTick,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PARTYLOBBY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := games.DefaultOptions()

	cmd := &cobra.Command{
		Use:           "partylobby",
		Short:         "A shared lobby for a handful of browser party games.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: PARTYLOBBY_BIND)")
	fs.StringVar(&cfg.content, "content", "", "path to a yaml content pack, embedded pack if empty (env: PARTYLOBBY_CONTENT)")
	fs.DurationVar(&cfg.ghostTick, "ghost-tick", def.GhostTick, "interval between pac-man ghost moves (env: PARTYLOBBY_GHOST_TICK)")
	fs.DurationVar(&cfg.joinGrace, "join-grace", def.JoinGrace, "delay between the last player joining and the first round (env: PARTYLOBBY_JOIN_GRACE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PARTYLOBBY_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: PARTYLOBBY_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: PARTYLOBBY_PROFILE)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "base url handed to clients, derived from each request if empty (env: PARTYLOBBY_PUBLIC_URL)")
	fs.IntVar(&cfg.rounds, "rounds", def.RoundLimit, "rounds per game session (env: PARTYLOBBY_ROUNDS)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", def.SessionTimeout, "time before idle game sessions are ended, 0 to disable (env: PARTYLOBBY_SESSION_TIMEOUT)")
	fs.DurationVar(&cfg.spriteTick, "sprite-tick", def.SpriteTick, "interval between sprite position updates (env: PARTYLOBBY_SPRITE_TICK)")
	fs.StringVar(&cfg.static, "static", "client", "directory of client files to serve (env: PARTYLOBBY_STATIC)")
	fs.DurationVar(&cfg.submitTimeout, "submit-timeout", def.SubmitTimeout, "time allowed for answers each round, 0 to disable (env: PARTYLOBBY_SUBMIT_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: PARTYLOBBY_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: PARTYLOBBY_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: PARTYLOBBY_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: PARTYLOBBY_VERSION)")
	fs.DurationVar(&cfg.voteTimeout, "vote-timeout", def.VoteTimeout, "time allowed for votes each round, 0 to disable (env: PARTYLOBBY_VOTE_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("partylobby v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
