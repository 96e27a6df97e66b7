package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/page"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if gin.Mode() == gin.DebugMode {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func newSubmitter(cfg config.Config) contact.Submitter {
	if cfg.SubmitMode == config.SubmitSMTP {
		return contact.Mailer{Config: cfg.SMTP}
	}
	return contact.Simulated{Delay: cfg.SubmitDelay, Clock: clock.Real()}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scope page.Scope
	defer scope.Close()

	store, err := content.Open(cfg.ContentPath, logger)
	if err != nil {
		return err
	}
	scope.Add(store.OnReload(func(s *content.Site) {
		logger.Info("serving reloaded content", zap.String("title", s.Meta.Title))
	}))
	if cfg.WatchContent && store.Path() != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := store.Watch(watchCtx); err != nil {
				logger.Error("content watcher stopped", zap.Error(err))
			}
		}()
		scope.Add(func() {
			cancel()
			<-done
		})
	}

	if cfg.SubmitMode == config.SubmitSMTP && (cfg.SMTP.User == "" || cfg.SMTP.Pass == "") {
		logger.Warn("SMTP credentials not configured; contact submissions will fail")
	}
	desk := contact.NewDesk(newSubmitter(cfg), clock.Real(), logger)
	scope.Add(desk.Close)

	salt, err := generateSalt()
	if err != nil {
		return err
	}
	srv := &server{store: store, desk: desk, salt: salt, logger: logger, clock: clock.Real()}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("portfolio listening",
			zap.String("addr", httpSrv.Addr),
			zap.String("submit_mode", cfg.SubmitMode),
			zap.Bool("custom_content", store.Path() != ""))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
