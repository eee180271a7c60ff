package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/chatwrapped/internal/client"
	"github.com/janekbaraniewski/chatwrapped/internal/config"
	"github.com/janekbaraniewski/chatwrapped/internal/upload"
)

// globalFlags are shared by every subcommand that talks to the service.
type globalFlags struct {
	apiURL       string
	configPath   string
	probeTimeout time.Duration
}

// session is what a command needs after flags and config have been merged.
type session struct {
	cfg     config.Config
	baseURL string
	log     zerolog.Logger
	client  *client.Client
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errUploadFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	var watchDir string

	root := &cobra.Command{
		Use:   "chatwrapped",
		Short: "WhatsApp Wrapped turns an exported group chat into a terminal year-in-review.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadSession(cmd, flags)
			if err != nil {
				return err
			}
			return runTUI(rt, watchDir)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "analysis service base URL (overrides config and "+config.EnvAPIBase+")")
	pf.StringVar(&flags.configPath, "config", "", "settings file (default "+config.ConfigPath()+")")
	pf.DurationVar(&flags.probeTimeout, "probe-timeout", client.DefaultProbeTimeout, "how long to wait for the health check")
	root.Flags().StringVar(&watchDir, "watch", "", "upload .txt exports saved into this directory")

	root.AddCommand(newAnalyzeCommand(flags))
	root.AddCommand(newVersionCommand())
	return root
}

func loadSession(cmd *cobra.Command, flags *globalFlags) (session, error) {
	path := flags.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Config path: %s\n", path)
		return session{}, fmt.Errorf("loading config: %w", err)
	}

	log := newLogger(cfg.Debug)
	zlog.Logger = log

	probeTimeout := cfg.ProbeTimeout()
	if cmd.Flags().Changed("probe-timeout") && flags.probeTimeout > 0 {
		probeTimeout = flags.probeTimeout
	}
	baseURL := cfg.ResolveBaseURL(flags.apiURL)

	log.Debug().
		Str("base_url", baseURL).
		Dur("probe_timeout", probeTimeout).
		Dur("upload_timeout", cfg.UploadTimeout()).
		Msg("config loaded")

	return session{
		cfg:     cfg,
		baseURL: baseURL,
		log:     log,
		client: client.New(client.Options{
			BaseURL:       baseURL,
			ProbeTimeout:  probeTimeout,
			UploadTimeout: cfg.UploadTimeout(),
			Logger:        log,
		}),
	}, nil
}

func (rt session) controller() *upload.Controller {
	return upload.NewController(rt.client, rt.log)
}

// newLogger writes to stderr only in debug mode; the TUI owns stdout.
func newLogger(debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
