// Package scheduler runs the periodic admin jobs.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"

	"storebot/pkg/logger"
	"storebot/pkg/notify"
	"storebot/service"
)

const digestTimeout = time.Minute

type Scheduler struct {
	cron     gocron.Scheduler
	digest   service.DigestService
	notifier notify.Notifier
	log      logger.ILogger
}

// New schedules the admin digest on the crontab expression expr.
func New(expr string, digest service.DigestService, notifier notify.Notifier, log logger.ILogger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		cron:     cron,
		digest:   digest,
		notifier: notifier,
		log:      log,
	}

	_, err = cron.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
			defer cancel()
			if err := s.SendDigest(ctx); err != nil {
				s.log.Error("failed to send digest", logger.Error(err))
			}
		}),
		gocron.WithName("admin-digest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = cron.Shutdown()
		return nil, fmt.Errorf("schedule digest %q: %w", expr, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info("⏰ Scheduler started")
	s.cron.Start()
}

func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// SendDigest builds the backlog summary and sends it to the admins.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	d, err := s.digest.Build(ctx)
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.Digest, notify.Fields{
		"pending_orders":      strconv.Itoa(d.PendingOrders),
		"unpaid_slots":        strconv.Itoa(d.UnpaidSlots),
		"open_crm":            strconv.Itoa(d.OpenCRM),
		"pending_cooperation": strconv.Itoa(d.PendingCooperation),
		"approved_users":      strconv.Itoa(d.ApprovedUsers),
	})
	s.log.Debug("digest sent", logger.Int("pending_orders", d.PendingOrders), logger.Int("open_crm", d.OpenCRM))
	return nil
}
