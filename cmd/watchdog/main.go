// cmd/watchdog/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamzrod/mongo-watchdog/internal/config"
	"github.com/tamzrod/mongo-watchdog/internal/health"
	"github.com/tamzrod/mongo-watchdog/internal/logging"
	"github.com/tamzrod/mongo-watchdog/internal/notify"
	"github.com/tamzrod/mongo-watchdog/internal/poller"
	"github.com/tamzrod/mongo-watchdog/internal/watchdog"
	"github.com/tamzrod/mongo-watchdog/internal/writer"
)

// Slack on top of ceiling + probe timeout before /live reports a hung loop.
const livenessGrace = 30 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use: "watchdog SUBCOMMAND",

		Short: "Alert when a MongoDB database stops receiving writes",

		Long: `watchdog polls dbStats of one MongoDB database and sends a Telegram message
when the object count stops changing. While the database stays idle the check
interval doubles up to a ceiling; any change resets it to the baseline.`,

		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},

		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
	)

	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use: "validate",

		Short: "Load and validate the config file, then exit",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config ok")
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use: "run",

		Short: "Run the watchdog until SIGINT or SIGTERM",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log, err := logging.New(logging.Config{
				Enabled: cfg.LoggingEnabled(),
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
			})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	// --------------------
	// Notifier
	// --------------------

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}

	// --------------------
	// Reporters (metrics + optional status mirror)
	// --------------------

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reporters := []watchdog.Reporter{watchdog.NewMetrics(reg)}

	mirror, closeMirror, err := writer.BuildMirror(cfg.Status, log.Named("status"))
	switch {
	case err != nil:
		// The mirror is an export, not a dependency: run without it.
		log.Errorw("status mirror disabled", "endpoint", cfg.Status.Endpoint, "error", err)
	case mirror != nil:
		defer func() { _ = closeMirror() }()
		mirror.Start()
		reporters = append(reporters, mirror)
	}

	// --------------------
	// Loop
	// --------------------

	policy := watchdog.Policy{
		Baseline: time.Duration(cfg.Watchdog.BaselineIntervalMs) * time.Millisecond,
		Ceiling:  time.Duration(cfg.Watchdog.CeilingIntervalMs) * time.Millisecond,
	}

	var notice string
	if cfg.Watchdog.StartupNotice {
		notice = "Watchdog started for database " + cfg.Mongo.Database
	}

	connect := func(ctx context.Context) (watchdog.Probe, error) {
		p, err := poller.Build(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Infof("mongodb connected (database=%s)", p.Database())
		return p, nil
	}

	loop, err := watchdog.New(
		watchdog.Config{
			Policy:        policy,
			AlertsEnabled: cfg.AlertingEnabled(),
			StartupNotice: notice,
		},
		connect,
		notifier,
		log.Named("watchdog"),
		watchdog.WithReporters(reporters...),
	)
	if err != nil {
		return err
	}

	// --------------------
	// Health + metrics listener (optional)
	// --------------------

	if cfg.HTTP.Listen != "" {
		hctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()

		probeTimeout := time.Duration(cfg.Mongo.ProbeTimeoutMs) * time.Millisecond
		handler := health.NewHandler(loop, reg, policy.Ceiling+probeTimeout+livenessGrace)
		go health.Serve(hctx, cfg.HTTP.Listen, handler, log.Named("health"))
	}

	if err := loop.Run(ctx); err != nil {
		log.Errorw("watchdog failed", "error", err)
		return err
	}

	log.Info("watchdog stopped")
	return nil
}

func buildNotifier(cfg *config.Config, log *zap.SugaredLogger) (notify.Notifier, error) {
	if !cfg.AlertingEnabled() {
		return notify.NewLog(log.Named("notify")), nil
	}

	tg := cfg.Alerting.Telegram
	return notify.NewTelegram(notify.TelegramConfig{
		URL:        tg.URL,
		Token:      tg.Token,
		ChatID:     tg.ChatID,
		Prefix:     cfg.Alerting.Prefix,
		Timeout:    time.Duration(tg.TimeoutMs) * time.Millisecond,
		MaxRetries: *tg.MaxRetries,
	}, &http.Client{}, log.Named("telegram"))
}
