package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"anistream/internal/anime"
	"anistream/internal/auth"
	"anistream/internal/episode"
	"anistream/internal/metrics"
	"anistream/internal/movie"
	"anistream/internal/pagecache"
	"anistream/internal/servers"
	"anistream/internal/source"
	"anistream/internal/web"
	"anistream/pkg/database"
	"anistream/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("db migrate failed")
	}

	serverRepo := servers.NewRepo(db)
	if err := serverRepo.SeedDefaults(context.Background()); err != nil {
		logrus.WithError(err).Fatal("seed servers failed")
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), metrics.Middleware())

	// Avoid the "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   auth.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookie, store))

	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.DBPath})
	})

	cache := pagecache.New()

	animeRepo := anime.NewRepo(db)
	movieRepo := movie.NewRepo(db)
	episodeRepo := episode.NewRepo(db)
	sourceRepo := source.NewRepo(db)
	userRepo := auth.NewRepo(db)

	animeHandler := anime.NewHandler(animeRepo, cache)
	movieHandler := movie.NewHandler(movieRepo, cache)
	episodeHandler := episode.NewHandler(episodeRepo, animeRepo, cache)
	sourceHandler := source.NewHandler(sourceRepo, cache)
	serverHandler := servers.NewHandler(serverRepo, cache)
	authHandler := auth.NewHandler(userRepo, cache)

	// Public JSON routes
	authHandler.RegisterRoutes(api)
	animeHandler.RegisterRoutes(api)
	movieHandler.RegisterRoutes(api)
	episodeHandler.RegisterRoutes(api)
	sourceHandler.RegisterRoutes(api)
	serverHandler.RegisterRoutes(api)

	// Admin JSON routes, session gated
	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin(userRepo))
	authHandler.RegisterAdminRoutes(admin)
	animeHandler.RegisterAdminRoutes(admin)
	movieHandler.RegisterAdminRoutes(admin)
	episodeHandler.RegisterAdminRoutes(admin)
	sourceHandler.RegisterAdminRoutes(admin)
	serverHandler.RegisterAdminRoutes(admin)

	// Server rendered pages
	pages := web.NewHandler(animeRepo, movieRepo, episodeRepo, sourceRepo, serverRepo, userRepo, cache)
	pages.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.Addr).Info("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logrus.WithField("signal", sig.String()).Info("shutdown signal received")
	case err := <-errCh:
		logrus.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("http shutdown error")
	}
	logrus.Info("server stopped")
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request")
			return
		}
		entry.Info("request")
	}
}
