package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/api/handler"
	"github.com/RoyceAzure/lab/eventro/internal/api/router"
	"github.com/RoyceAzure/lab/eventro/internal/appcontext"
	"github.com/RoyceAzure/lab/eventro/internal/config"
	"github.com/rs/zerolog/log"
)

func main() {
	cf := config.GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := appcontext.NewApplicationContext(ctx, cf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init application")
	}
	config.OnChange(app.ApplyConfig)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start background workers")
	}

	// 初始化 handler
	server := handler.NewServer(
		handler.NewListingHandler(app.ListingService),
		handler.NewLocationHandler(app.LocationService),
		handler.NewCartHandler(app.CartService, app.ListingService),
		handler.NewCheckoutHandler(app.CheckoutService, app.OrderHistoryService),
		handler.NewMessageHandler(app.MessageService),
	)

	// 設置路由
	r := router.SetupRouter(server, app.Limiter, app.Logger)

	srv := &http.Server{
		Addr:              cf.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCompleted := make(chan struct{})
	// 監聽退出訊號
	go func() {
		defer close(shutdownCompleted)
		<-ctx.Done()
		log.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cf.ShutdownGrace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("application shutdown error")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped unexpectedly")
	}
	<-shutdownCompleted
	log.Info().Msg("closed completed")
}
