package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-planner/internal/config"
	"todo-planner/internal/notify"
	"todo-planner/internal/repository"
	"todo-planner/internal/server"
	"todo-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	scratchpadRepo := repository.NewScratchpadRepository(db)

	taskSvc := service.NewTaskService(taskRepo)
	scratchpadSvc := service.NewScratchpadService(scratchpadRepo)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(taskSvc, scratchpadSvc).Handler(),
	}

	if cfg.ReportsEnabled() {
		reminderSvc := service.NewReminderService(taskRepo)
		notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("notifier: %v", err)
		}

		scheduler := service.NewSchedulerService(time.Local)
		job := func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			text, err := reminderSvc.DailySummary(jobCtx, time.Now())
			if err != nil {
				log.Printf("report: %v", err)
				return
			}
			if err := notifier.Send(jobCtx, text); err != nil {
				log.Printf("report: %v", err)
			}
		}

		if cfg.ReportTime != "" {
			_, err = scheduler.ScheduleDaily(cfg.ReportTime, job)
		} else {
			_, err = scheduler.ScheduleInterval(cfg.ReportInterval, job)
		}
		if err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("[info] todo server listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
