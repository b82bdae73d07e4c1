package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/config"
	"github.com/zxrrcpandey/rahulops/internal/db"
	"github.com/zxrrcpandey/rahulops/internal/logging"
	"github.com/zxrrcpandey/rahulops/internal/metrics"
	"github.com/zxrrcpandey/rahulops/internal/remote"
	"github.com/zxrrcpandey/rahulops/internal/workflow"
)

const taskQueue = "fleet-tasks"

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	w := worker.New(tc, taskQueue, worker.Options{})

	// Register activities
	coreDBActivities := activity.NewCoreDB(pool)
	w.RegisterActivity(coreDBActivities)

	agentActivities := activity.NewAgent(remote.Dial, cfg.SSHKeyPath, cfg.SSLContactEmail, time.Duration(cfg.CommandTimeoutSec)*time.Second)
	w.RegisterActivity(agentActivities)

	archiveActivities := activity.NewArchive(remote.Dial, cfg.SSHKeyPath, cfg.ArchiveEndpoint, cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, cfg.ArchiveBucket)
	w.RegisterActivity(archiveActivities)

	mailerActivities := activity.NewMailer(cfg.NotifyEndpoint, cfg.NotifyAPIKey, cfg.EmailFrom)
	w.RegisterActivity(mailerActivities)

	// Register workflows
	w.RegisterWorkflow(workflow.DeploySiteWorkflow)
	w.RegisterWorkflow(workflow.SetupHostWorkflow)
	w.RegisterWorkflow(workflow.SuspendSiteWorkflow)
	w.RegisterWorkflow(workflow.ReactivateSiteWorkflow)
	w.RegisterWorkflow(workflow.AutoSuspendWorkflow)
	w.RegisterWorkflow(workflow.PaymentReminderWorkflow)
	w.RegisterWorkflow(workflow.RunSiteBackupWorkflow)
	w.RegisterWorkflow(workflow.ScheduledBackupsWorkflow)
	w.RegisterWorkflow(workflow.HostHealthWorkflow)
	w.RegisterWorkflow(workflow.NotificationOutboxWorkflow)

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", taskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	// Register cron schedules. Errors for already-existing schedules are
	// ignored so that re-deploys do not fail.
	registerCronSchedules(ctx, tc, taskQueue, cfg, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}

type cronSchedule struct {
	id       string
	cron     string
	workflow interface{}
	args     []interface{}
}

func registerCronSchedules(ctx context.Context, tc temporalclient.Client, taskQueue string, cfg *config.Config, logger zerolog.Logger) {
	schedules := []cronSchedule{
		{
			id:       "auto-suspend-cron",
			cron:     "0 0 * * *",
			workflow: workflow.AutoSuspendWorkflow,
		},
		{
			id:       "payment-reminder-cron",
			cron:     "0 8 * * *",
			workflow: workflow.PaymentReminderWorkflow,
		},
		{
			id:       "scheduled-backups-cron",
			cron:     "0 2 * * *",
			workflow: workflow.ScheduledBackupsWorkflow,
		},
		{
			id:       "host-health-cron",
			cron:     "*/5 * * * *",
			workflow: workflow.HostHealthWorkflow,
			args:     []interface{}{cfg.AlertEmail},
		},
		{
			id:       "notification-outbox-cron",
			cron:     "* * * * *",
			workflow: workflow.NotificationOutboxWorkflow,
		},
	}

	scheduleClient := tc.ScheduleClient()

	for _, s := range schedules {
		_, err := scheduleClient.Create(ctx, temporalclient.ScheduleOptions{
			ID: s.id,
			Spec: temporalclient.ScheduleSpec{
				CronExpressions: []string{s.cron},
			},
			Action: &temporalclient.ScheduleWorkflowAction{
				ID:        s.id,
				Workflow:  s.workflow,
				Args:      s.args,
				TaskQueue: taskQueue,
			},
		})
		if err != nil {
			if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "AlreadyExists") || strings.Contains(err.Error(), "already registered") {
				logger.Info().Str("id", s.id).Msg("cron schedule already exists, skipping")
			} else {
				logger.Fatal().Err(err).Str("id", s.id).Msg("failed to create cron schedule")
			}
		} else {
			logger.Info().Str("id", s.id).Str("cron", s.cron).Msg("created cron schedule")
		}
	}
}
