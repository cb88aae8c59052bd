package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/config"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/database"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/engine"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/excel"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/notify"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/scheduler"
)

func main() {
	importFile := flag.String("import", "", "import topic catalog from an .xlsx or .csv file and exit")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	if err := database.Connect(cfg.Database); err != nil {
		log.Fatalw("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
	}
	defer database.Close()

	if *importFile != "" {
		runImport(log, *importFile)
		return
	}

	eng, err := engine.New(
		database.NewMasteryRepository(),
		database.NewTopicRepository(),
		database.NewPlanLogRepository(),
		cfg.Engine,
		log,
	)
	if err != nil {
		log.Fatalw("failed to create recommendation engine", "error", err)
	}

	var notifier scheduler.Notifier
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken)
		if err != nil {
			log.Fatalw("failed to create telegram notifier", "error", err)
		}
		notifier = tg
	} else {
		log.Info("TELEGRAM_BOT_TOKEN not set, daily plan delivery disabled")
	}

	if notifier != nil {
		sched := scheduler.New(eng, database.NewSubscriptionRepository(), notifier, cfg.DefaultPlanMinutes, log)
		sched.Start()
		defer sched.Stop()
	}

	log.Infow("adaptive learning engine started", "driver", cfg.Database.Driver)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig.String())
}

func runImport(log *zap.SugaredLogger, path string) {
	importCfg := excel.DefaultImportConfig()
	importCfg.FilePath = path

	result, err := excel.ImportTopics(context.Background(), importCfg)
	if err != nil {
		log.Fatalw("topic import failed", "file", path, "error", err)
	}
	log.Infow("topic import finished",
		"file", path,
		"processed", result.TotalProcessed,
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors))
	for _, msg := range result.Errors {
		log.Warnw("import row error", "detail", msg)
	}
}
