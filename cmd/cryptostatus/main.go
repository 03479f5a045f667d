package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptostatus/internal/compose"
	"cryptostatus/internal/config"
	"cryptostatus/internal/format"
	"cryptostatus/internal/job"
	"cryptostatus/internal/notify"
	"cryptostatus/internal/provider"
	"cryptostatus/internal/scheduler"
	"cryptostatus/internal/service"
	"cryptostatus/internal/social"
	"cryptostatus/internal/telemetry"
	"cryptostatus/pkg/logger"
	"cryptostatus/pkg/tracing"

	"github.com/bugsnag/bugsnag-go/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Set via -ldflags.
var version = "dev"

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initTracerFunc    = tracing.InitTracer
	newReporterFunc   = func(cfg *config.Config) telemetry.Reporter { return telemetry.NewBugsnag(cfg.BugsnagAPIKey, version, "production") }
	newPipelineFunc   = newPipeline
	setupSignalNotify = signal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg *config.Config
	tp  *sdktrace.TracerProvider
	job *job.HourlyJob
}

func (a *app) close(ctx context.Context) {
	if err := a.tp.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("error shutting down tracer provider")
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cryptostatus",
		Short:         "Post hourly crypto prices to Twitter and Instagram",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().Bool("dry-run", false, "compose the post without publishing")
	_ = viper.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("DRY_RUN", root.PersistentFlags().Lookup("dry-run"))

	root.AddCommand(newRunCmd(), newScheduleCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once if inside the posting window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)
			defer bugsnag.AutoNotify(ctx)

			return a.job.Run()
		},
	}
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on CRON_SCHEDULE until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			s := scheduler.New(log.Logger)
			if err := s.AddJob(a.cfg.CronSchedule, a.job); err != nil {
				return fmt.Errorf("register job: %w", err)
			}
			s.Start()

			quit := make(chan os.Signal, 1)
			setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
			waitForSignalFunc(quit)

			log.Info().Msg("shutting down scheduler")
			s.Stop()
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cryptostatus %s\n", version)
		},
	}
}

func bootstrap(ctx context.Context) (*app, error) {
	if err := loadEnvFunc(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		return nil, err
	}
	logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	tp, tracer, err := initTracerFunc(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}

	reporter := newReporterFunc(cfg)
	pipeline, err := newPipelineFunc(cfg, tracer)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return &app{
		cfg: cfg,
		tp:  tp,
		job: job.NewHourlyJob(pipeline, reporter, cfg.Location, cfg.WindowStartHour, cfg.WindowEndHour),
	}, nil
}

func newPipeline(cfg *config.Config, tracer trace.Tracer) (job.Pipeline, error) {
	var flavor compose.FlavorSource
	if cfg.NewsRSSURL != "" {
		flavor = provider.NewRSSProvider(tracer, cfg.NewsRSSURL, cfg.NewsQuery)
	} else {
		flavor = provider.NewNewsAPIProvider(tracer, cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.NewsCountry, cfg.NewsCategory, cfg.NewsQuery)
	}

	seed := uint64(time.Now().UnixNano())
	captioner := compose.NewCaptioner(flavor, rand.New(rand.NewPCG(seed, uint64(os.Getpid()))), cfg.Location)
	composer := compose.NewComposer(tracer, compose.Options{
		Hashtags:     cfg.PostHashtags,
		LinesPerPost: cfg.LinesPerPost,
		Offset:       cfg.LinesOffset,
		ThreadLength: cfg.ThreadLength,
		Location:     cfg.Location,
	}, captioner)

	var alerter notify.Alerter
	tg, err := notify.NewTelegramAlerter(cfg.TelegramBotToken, cfg.TelegramAlertChatID)
	if err != nil {
		log.Warn().Err(err).Msg("telegram alerts disabled")
	} else if tg != nil {
		alerter = tg
	}

	mailer := notify.NewMailNotifier(tracer, notify.SMTPConfig{
		Server:     cfg.SMTPServer,
		Port:       cfg.SMTPPort,
		Encryption: cfg.SMTPEncryption,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
	}, notify.Message{
		From:    cfg.MailFrom,
		To:      cfg.MailTo,
		Subject: cfg.MailSubject,
		Body:    cfg.MailBody,
	}, alerter)

	twitter := social.NewTwitterClient(tracer, cfg.TwitterConsumerKey, cfg.TwitterConsumerSecret, cfg.TwitterAccessToken, cfg.TwitterAccessTokenSecret)
	instagram := social.NewInstagramClient(tracer, cfg.InstaUsername, cfg.InstaPassword)

	return service.NewStatusService(
		tracer,
		provider.NewCoinMarketCapProvider(tracer, cfg.CryptoAPI, cfg.CryptoAPIEndpoint, cfg.CryptoAPILimit),
		provider.NewConversionFeed(tracer, cfg.ConversionAPI, cfg.LocalCurrency, cfg.SecondaryCurrency),
		format.New(cfg.AllowedSymbols, cfg.LocalCurrency, cfg.SecondaryCurrency),
		composer,
		social.NewPublisher(tracer, twitter, cfg.TwitterScreenName),
		mailer,
		social.NewPhotoPublisher(tracer, instagram, mailer, os.TempDir()),
		cfg.DryRun,
	), nil
}
