package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jam3ahq/jam3a/config"
	"github.com/jam3ahq/jam3a/internal/adminapi"
	"github.com/jam3ahq/jam3a/internal/app"
	"github.com/jam3ahq/jam3a/internal/webserver"
)

var (
	h        bool
	showVer  bool
	initdb   bool
	conffile string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&showVer, "v", false, "print version")
	flag.BoolVar(&initdb, "initdb", false, "drop and recreate all tables, then exit")
	flag.StringVar(&conffile, "c", "/etc/jam3a.yml", "config file")
}

var version = "dev"

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		return
	}
	if showVer {
		fmt.Println("jam3a", version)
		return
	}

	cfg := config.LoadConfig(conffile)
	_ = os.MkdirAll(cfg.System.Workdir, 0755)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	webserver.Init(application)
	adminapi.Init()

	errCh := make(chan error, 1)
	go func() {
		errCh <- webserver.Listen()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			zap.S().Errorf("web server error: %v", err)
		}
	case <-ctx.Done():
		zap.S().Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := webserver.Shutdown(shutdownCtx); err != nil {
			zap.S().Errorf("web server shutdown error: %v", err)
		}
	}
}
