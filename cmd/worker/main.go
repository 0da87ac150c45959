package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/autoartisan/internal/config"
	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/benvon/autoartisan/internal/logger"
	"github.com/benvon/autoartisan/internal/mail"
	"github.com/benvon/autoartisan/internal/queue"
	"github.com/benvon/autoartisan/internal/telemetry"
	"github.com/benvon/autoartisan/internal/workers"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(telemetry.ServiceWorker, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	mailCfg := cfg.Mail()
	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.Bool("smtp_configured", mailCfg.Configured()),
		zap.String("smtp_host", mailCfg.Host),
		zap.Int("smtp_port", mailCfg.Port),
	)
	if !mailCfg.Configured() {
		zapLogger.Warn("smtp_not_configured",
			zap.String("detail", "contact jobs will be dead-lettered until EMAIL_HOST, EMAIL_FROM and ADMIN_EMAIL are set"),
		)
	}

	if cfg.RabbitMQURL == "" {
		zapLogger.Fatal("rabbitmq_url_required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, telemetry.ServiceWorker, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("otel_init_failed", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Warn("otel_shutdown_failed", zap.Error(err))
				}
			}()
		}
	}

	catalog, err := i18n.Load()
	if err != nil {
		zapLogger.Fatal("translations_load_failed", zap.Error(err))
	}

	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("rabbitmq_connect_failed", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("rabbitmq_close_failed", zap.Error(err))
		}
	}()

	zapLogger.Info("connected_to_rabbitmq", zap.Int("prefetch", cfg.RabbitMQPrefetch))

	mailer := mail.NewSMTPMailer(mailCfg, zapLogger)
	contactMailer := workers.NewContactMailer(
		mailer,
		catalog,
		catalog.Resolve(cfg.DefaultLanguage, "es"),
		mailCfg.From,
		mailCfg.To,
		jobQueue,
		zapLogger,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("queue_consume_failed", zap.Error(err))
	}

	zapLogger.Info("worker_started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}

				job := msg.GetJob()
				jobCtx, span := telemetry.StartSpan(ctx, "contact_email.process",
					attribute.String("job.id", job.ID.String()),
					attribute.String("job.type", string(job.Type)),
					attribute.Int("job.retry_count", job.RetryCount),
					attribute.Bool("messaging.redelivered", msg.Redelivered()),
				)
				if err := contactMailer.ProcessJob(jobCtx, msg); err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, "job failed")
					zapLogger.Error("job_failed",
						zap.Error(err),
						zap.String("job_id", job.ID.String()),
						zap.String("job_type", string(job.Type)),
					)
				}
				span.End()
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
				// the consumer stops after a channel error; exit so the supervisor restarts us
				sigChan <- syscall.SIGTERM
			}
		}
	}()

	<-sigChan
	zapLogger.Info("shutdown_signal_received")
	cancel()
	zapLogger.Info("worker_stopped")
}
