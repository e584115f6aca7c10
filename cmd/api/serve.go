package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-search/internal/cache"
	"catalog-search/internal/catalogsync"
	"catalog-search/internal/handlers"
	"catalog-search/internal/logger"
	"catalog-search/internal/metrics"
	"catalog-search/internal/routes"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook and search HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newProductStore()
	if err != nil {
		return err
	}
	repo := newRepository(store)

	recorder, closeLedger, err := newLedger(ctx)
	if err != nil {
		return err
	}
	defer closeLedger()

	m := metrics.New()

	var searchCache *cache.Cache
	if cfg.SearchCacheTTL > 0 {
		searchCache = cache.New(cfg.SearchCacheTTL)
		defer searchCache.Stop()
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.Gin(log.Named("http")), gin.Recovery(), m.Middleware())

	routes.RegisterRoutes(router, routes.Dependencies{
		Webhooks: handlers.NewWebhookHandler(repo, log.Named("webhooks"),
			handlers.WithSearchCache(searchCache),
			handlers.WithWebhookLedger(recorder),
			handlers.WithWebhookMetrics(m),
			handlers.WithSecret(cfg.ShopifyWebhookSecret),
		),
		Search:  handlers.NewSearchHandler(repo, searchCache, m, log.Named("search")),
		Metrics: m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// la respuesta generativa puede tardar
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if syncOnStart, _ := cmd.Flags().GetBool("sync-on-start"); syncOnStart {
		source, err := newShopifyClient()
		if err != nil {
			return err
		}
		syncer := catalogsync.New(source, repo, log.Named("sync"),
			catalogsync.WithLedger(recorder),
			catalogsync.WithMetrics(m),
		)
		// la corrida comparte el ctx del server; el shutdown la corta
		go func() {
			if _, err := syncer.Run(ctx); err == nil && searchCache != nil {
				searchCache.DeleteByPrefix(handlers.SearchCachePrefix)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running",
			zap.String("port", cfg.Port),
			zap.String("vector_store", cfg.VectorStoreDriver),
			zap.String("collection", cfg.Collection),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func init() {
	serveCmd.Flags().Bool("sync-on-start", false, "run a full Shopify sync in the background once the server starts")
}
