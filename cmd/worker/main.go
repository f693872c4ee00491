package main

import (
	"VaultDrop/config"
	"VaultDrop/internal/repo"
	"VaultDrop/internal/worker"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	repo.InitMysql()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("notify worker started")
	if err := worker.RunNotifyWorker(ctx); err != nil {
		log.Fatalf("notify worker stopped: %v", err)
	}
}
