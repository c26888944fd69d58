package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/internal/pkg/bootstrap"
	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
	"github.com/ManuelReschke/PlugSync/internal/pkg/jobqueue"
)

func main() {
	workers := env.GetEnvInt("JOB_QUEUE_WORKERS", 3)

	container, err := bootstrap.New(context.Background(), bootstrap.Options{Workers: workers})
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer container.Close()

	jobqueue.RegisterOrderProcessors(container.Queue, container.Orders)

	manager := jobqueue.NewManager(container.Queue, env.GetEnvDuration("JOB_QUEUE_STATS_INTERVAL", 0))
	manager.Start()
	log.Infof("Worker started with %d worker(s)", workers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	manager.Stop()
}
