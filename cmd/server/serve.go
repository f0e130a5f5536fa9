package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/intlakaa/internal/api"
	"github.com/intlakaa/internal/geo"
	"github.com/intlakaa/internal/mailer"
	"github.com/intlakaa/internal/middleware"
	"github.com/intlakaa/internal/scheduler"
	"github.com/intlakaa/internal/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Run migrations, start the invite sweep and serve the API and the public site until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Running migrations...")
	if err := db.RunMigrations(ctx); err != nil {
		logger.Errorw("failed to run migrations", "error", err)
		return err
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(db)
	inviteRepo := storage.NewInviteRepository(db)
	leadRepo := storage.NewLeadRepository(db)
	seoRepo := storage.NewSeoRepository(db)

	if cfg.Owner.Email != "" && cfg.Owner.Password != "" {
		if err := ensureOwner(ctx, userRepo, cfg.Owner.Email, cfg.Owner.Password, logger); err != nil {
			logger.Warnw("owner bootstrap skipped", "error", err)
		}
	}

	loc := cfg.Location()

	sched := scheduler.NewScheduler(logger, loc)
	if err := sched.AddJob(scheduler.NewInviteSweep(cfg.Invite.SweepSchedule, inviteRepo, logger)); err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	loginLimiter := middleware.NewRateLimiter("login", cfg.Limits.LoginPerMinute)
	defer loginLimiter.Stop()
	leadsLimiter := middleware.NewRateLimiter("leads", cfg.Limits.LeadsPerMinute)
	defer leadsLimiter.Stop()

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT, userRepo)

	handler := api.NewHandler(api.Deps{
		Users:          userRepo,
		Invites:        inviteRepo,
		Leads:          leadRepo,
		Seo:            seoRepo,
		Mailer:         mailer.NewSendGrid(cfg.Mail, logger),
		Geo:            geo.NewClient(cfg.GeoIP),
		Tokens:         authMiddleware,
		DB:             db,
		Logger:         logger,
		PublicURL:      cfg.Site.PublicURL,
		SiteDir:        cfg.Site.Dir,
		InviteLifetime: cfg.Invite.Lifetime,
		Location:       loc,
	})

	router := api.NewRouter(handler, authMiddleware, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LoginLimiter:   loginLimiter,
		LeadsLimiter:   leadsLimiter,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Server starting", "addr", server.Addr, "site_dir", cfg.Site.Dir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorw("server error", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server shutdown error", "error", err)
		return err
	}

	logger.Info("Server stopped")
	return nil
}
