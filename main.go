package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"profmailgen/app/config"
	"profmailgen/app/server"
	"profmailgen/app/service/conversation"
	"profmailgen/app/service/engine"
	"profmailgen/app/service/queue"
	"profmailgen/app/service/reply"
	"profmailgen/app/service/summarizer"
	"profmailgen/app/storage"
	"profmailgen/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, storage.New)
	do.Provide(di, summarizer.New)
	do.Provide(di, conversation.New)
	do.Provide(di, reply.New)
	do.Provide(di, queue.New)
	do.Provide(di, engine.New)
	do.Provide(di, server.New)

	slog.Info("Service started", "port", cfg.Server.Port)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	g, gCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		return do.MustInvoke[*engine.Service](di).Run(gCtx)
	})

	g.Go(func() error {
		return do.MustInvoke[*server.Server](di).Run(gCtx)
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Service stopped", "error", err)
	}
}
