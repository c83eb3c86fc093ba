// cmd/tools/reminder-dispatcher/main.go
// One-shot reminder pass for cron-style scheduling: scans due deadlines
// and upcoming appointments, sends e-mail/SMS, marks them notified and
// exits.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"lawdesk-api/internal/common/aws"
	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/notify"
	"lawdesk-api/internal/repository"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "scan and report without sending")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	repos := repository.New(pg.DB)

	if *dryRun {
		window := time.Duration(cfg.Notifications.Reminder.DeadlineWindow) * 24 * time.Hour
		deadlines, err := repos.Cases.DueDeadlines(ctx, window)
		if err != nil {
			zapLog.Fatal("deadline scan failed", zap.Error(err))
		}
		ahead := time.Duration(cfg.Notifications.Reminder.AppointmentAhead) * time.Minute
		appts, err := repos.Appointments.Upcoming(ctx, ahead)
		if err != nil {
			zapLog.Fatal("appointment scan failed", zap.Error(err))
		}
		zapLog.Info("dry run",
			zap.Int("dueDeadlines", len(deadlines)),
			zap.Int("upcomingAppointments", len(appts)),
		)
		return
	}

	sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}

	reminder := notify.NewReminder(repos.Cases, repos.Appointments, repos.Notifications,
		sesClient, snsClient, cfg.Notifications, log)

	sent, err := reminder.Run(ctx)
	if err != nil {
		zapLog.Fatal("reminder pass failed", zap.Error(err))
	}
	zapLog.Info("reminder pass finished", zap.Int("sent", sent))
}
