package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"storebot/config"
	"storebot/pkg/bot"
	"storebot/pkg/conversation"
	"storebot/pkg/filestore"
	"storebot/pkg/logger"
	"storebot/pkg/metrics"
	"storebot/pkg/notify"
	"storebot/pkg/otp"
	"storebot/pkg/scheduler"
	"storebot/pkg/session"
	"storebot/service"
	"storebot/storage"
	"storebot/storage/memory"
	"storebot/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stg, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize storage", logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	sessions, err := newSessions(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize session store", logger.Error(err))
		os.Exit(1)
	}

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize file store", logger.Error(err))
		os.Exit(1)
	}

	svc := service.New(stg, log)

	tg, err := bot.New(&cfg, log)
	if err != nil {
		log.Error("Failed to initialize bot", logger.Error(err))
		os.Exit(1)
	}

	admins := notify.NewTelegram(tg.Bot, cfg.AdminIDs, log)
	notifiers := notify.Multi{admins}
	if len(cfg.KafkaBrokers) > 0 {
		k := notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer k.Close()
		notifiers = append(notifiers, k)
	}

	engine := conversation.New(svc, sessions, newOTPGateway(cfg, log), files, notifiers, log, conversation.Options{
		AllowedCities:   cfg.AllowedCities,
		ResumeMinLength: cfg.ResumeMinLength,
		CardNumber:      cfg.PaymentCardNumber,
		CardHolder:      cfg.PaymentCardHolder,
		SupportUsername: cfg.SupportUsername,
	})
	tg.Serve(engine)

	var sched *scheduler.Scheduler
	if cfg.DigestCron != "off" {
		sched, err = scheduler.New(cfg.DigestCron, svc.Digest(), notifiers, log)
		if err != nil {
			log.Error("Failed to schedule digest", logger.Error(err))
			os.Exit(1)
		}
		sched.Start()
	}

	srv := metrics.NewServer(cfg.AppPort, stg.Ping)
	go func() {
		log.Info("Metrics server is listening", logger.Int("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server stopped", logger.Error(err))
		}
	}()

	go tg.Start()
	log.Info("🚀 Store bot is running")

	<-ctx.Done()
	log.Info("Stopping bot and shutting down...")

	tg.Stop()
	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Error("Failed to stop scheduler", logger.Error(err))
		}
	}
	admins.Wait()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop metrics server", logger.Error(err))
	}
}

func newStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	if cfg.StorageDriver == "memory" {
		log.Warning("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	}
	return postgres.New(ctx, cfg, log)
}

func newSessions(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.SessionDriver != "redis" {
		return session.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return session.NewRedisStore(client, cfg.SessionTTL), nil
}

func newFileStore(ctx context.Context, cfg config.Config) (filestore.Store, error) {
	if cfg.FileStoreDriver != "s3" {
		return filestore.NewLocalStore(cfg.ReceiptsDir), nil
	}
	return filestore.NewS3Store(ctx, filestore.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
}

func newOTPGateway(cfg config.Config, log logger.ILogger) otp.Gateway {
	var sender otp.Sender = otp.LogSender{Log: log}
	if cfg.SMSAPIKey != "" {
		sender = otp.NewKavenegarClient(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SMSTemplate)
	}
	return otp.NewSMSGateway(sender, cfg.OTPLength, log)
}
