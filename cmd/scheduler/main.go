package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"question-notifier/internal/app"
	"question-notifier/internal/infra/cache"
	"question-notifier/internal/infra/config"
	httpinfra "question-notifier/internal/infra/http"
	applog "question-notifier/internal/infra/log"
	"question-notifier/internal/infra/metrics"
	"question-notifier/internal/infra/queue"
	"question-notifier/internal/infra/timer"
	"question-notifier/internal/questions"
	"question-notifier/internal/usecase/notify"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, cfg.LogLevel)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := timer.ValidateSchedule(cfg.Scheduler.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("scheduler: некорректное расписание")
	}

	bank, err := questions.Load(cfg.Scheduler.QuestionsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: не удалось загрузить банк вопросов")
	}

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: нет подключения к хранилищу")
	}
	defer closeStore()

	opts, err := app.ServiceOptions(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: некорректные настройки")
	}

	var serviceOpts []notify.Option
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal().Err(err).Msg("scheduler: нет подключения к Redis")
		}
		defer redisClient.Close()
		rc := cache.NewRedis(redisClient, cfg.RedisPrefix)
		serviceOpts = append(serviceOpts, notify.WithTickLock(rc), notify.WithStateStore(rc))
	}

	switch {
	case cfg.Queues.Driver == "rabbitmq" && cfg.RabbitURL != "":
		publisher, err := queue.NewRabbitNotificationQueue(cfg.RabbitURL, cfg.Queues.Due)
		if err != nil {
			logger.Fatal().Err(err).Msg("scheduler: нет подключения к RabbitMQ")
		}
		defer publisher.Close()
		serviceOpts = append(serviceOpts, notify.WithPublisher(publisher))
	case cfg.Queues.Driver == "redis" && redisClient != nil:
		serviceOpts = append(serviceOpts, notify.WithPublisher(queue.NewRedisNotificationQueue(redisClient, cfg.Queues.Due)))
	default:
		logger.Info().Str("driver", cfg.Queues.Driver).Msg("scheduler: публикация событий отключена")
	}

	service := notify.NewService(store, bank, logger.With().Str("component", "notify").Logger(), opts, serviceOpts...)

	cron := timer.New(logger.With().Str("component", "timer").Logger())
	if err := cron.Add(ctx, cfg.Scheduler.Schedule, service.RunTick); err != nil {
		logger.Fatal().Err(err).Msg("scheduler: не удалось зарегистрировать тик")
	}
	cron.Start()
	if cfg.Scheduler.RunOnStart {
		go service.RunTick(ctx)
	}

	srv := httpinfra.NewServer(logger.With().Str("component", "http").Logger(), service, cfg.AdminToken)
	go func() {
		if err := srv.Start(cfg.HTTPAddr); err != nil {
			logger.Error().Err(err).Msg("scheduler: HTTP сервер остановлен")
			stop()
		}
	}()

	logger.Info().
		Str("schedule", cfg.Scheduler.Schedule).
		Str("store", cfg.Store.Driver).
		Str("policy", string(opts.Policy)).
		Int("questions", bank.Len()).
		Msg("scheduler: старт")
	<-ctx.Done()
	logger.Info().Msg("scheduler: остановка")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cron.Stop(shutdownCtx)
	_ = srv.Shutdown(shutdownCtx)
}
