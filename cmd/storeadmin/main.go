package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/storekit/storeadmin/config"
	"github.com/storekit/storeadmin/internal/adminapi"
	"github.com/storekit/storeadmin/internal/app"
	"github.com/storekit/storeadmin/internal/webserver"
)

var (
	h     = flag.Bool("h", false, "help usage")
	cfile = flag.String("c", "storeadmin.yml", "config file")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*cfile)

	a := app.NewApplication(cfg)
	a.Init(cfg)
	defer a.Release()

	webserver.Init(cfg)
	adminapi.Init(a)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zap.S().Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = webserver.Echo().Shutdown(ctx)
	}()

	if err := webserver.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Fatalf("webserver error: %v", err)
	}
}
