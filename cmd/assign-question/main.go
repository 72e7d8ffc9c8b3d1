package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"question-notifier/internal/app"
	"question-notifier/internal/infra/config"
	applog "question-notifier/internal/infra/log"
	"question-notifier/internal/questions"
	"question-notifier/internal/usecase/notify"
)

func main() {
	userID := flag.String("user", "", "идентификатор документа пользователя")
	index := flag.Int("index", -1, "индекс вопроса в банке")
	flag.Parse()

	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if *userID == "" || *index < 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bank, err := questions.Load(cfg.Scheduler.QuestionsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("assign-question: не удалось загрузить банк вопросов")
	}
	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("assign-question: нет подключения к хранилищу")
	}
	defer closeStore()

	opts, err := app.ServiceOptions(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("assign-question: некорректные настройки")
	}
	service := notify.NewService(store, bank, logger.With().Str("component", "notify").Logger(), opts)
	service.AssignQuestionToUser(ctx, *userID, *index)
}
