package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vikrambadhan/HGNRest/internal/cache"
	"github.com/vikrambadhan/HGNRest/internal/config"
	"github.com/vikrambadhan/HGNRest/internal/events"
	"github.com/vikrambadhan/HGNRest/internal/permissions"
	"github.com/vikrambadhan/HGNRest/internal/reconcile"
	"github.com/vikrambadhan/HGNRest/internal/router"
	teamrepo "github.com/vikrambadhan/HGNRest/internal/team/repo"
	teamrest "github.com/vikrambadhan/HGNRest/internal/team/rest"
	teamservice "github.com/vikrambadhan/HGNRest/internal/team/service"
	userprofilerepo "github.com/vikrambadhan/HGNRest/internal/userprofile/repo"
	userprofilerest "github.com/vikrambadhan/HGNRest/internal/userprofile/rest"
	userprofileservice "github.com/vikrambadhan/HGNRest/internal/userprofile/service"
	"github.com/vikrambadhan/HGNRest/internal/validator"
	wbsrepo "github.com/vikrambadhan/HGNRest/internal/wbs/repo"
	wbsrest "github.com/vikrambadhan/HGNRest/internal/wbs/rest"
	wbsservice "github.com/vikrambadhan/HGNRest/internal/wbs/service"
	"github.com/vikrambadhan/HGNRest/pkg/db"
)

func main() {
	// Context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Initialize config
	cfg := config.MustLoad()

	// Connect to DB
	DB, err := db.OpenDB(ctx, cfg.DB)
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("failed to connect to DB")
	}

	// Initialize validator
	v := validator.New()

	// Collaborators
	perms := permissions.NewChecker()
	profileCache := cache.NewProfileCache(cfg.Redis)
	membershipEvents := events.NewBus(profileCache)

	// Initialize repositories
	teamRepo := teamrepo.New(DB)
	profileRepo := userprofilerepo.New(DB)
	wbsRepo := wbsrepo.New(DB)

	// Initialize services
	team := teamservice.NewTeam(teamRepo, profileRepo, perms, membershipEvents)
	profile := userprofileservice.NewUserProfile(profileRepo, perms, profileCache)
	wbs := wbsservice.NewWBS(wbsRepo, perms)

	// Initialize handlers
	teamHandler := teamrest.NewTeamHandler(team, v)
	profileHandler := userprofilerest.NewUserProfileHandler(profile, v)
	wbsHandler := wbsrest.NewWBSHandler(wbs, v)

	// Background reconciliation of profile team sets
	reconciler := reconcile.New(DB)
	go reconciler.Start(ctx, cfg.Reconcile.Interval)

	// Initialize Gin engine and set routes
	engine := router.New(teamHandler, profileHandler, wbsHandler)

	// Initialize and start http server
	server := &http.Server{
		Addr:    cfg.Server.HTTPPort,
		Handler: engine,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Logger.Fatal().Err(err).Msg("failed to listen start http server")
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	withTimeout, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := server.Shutdown(withTimeout); err != nil {
		log.Logger.Error().Err(err).Msg("server shutdown failed")
	}

	if err := profileCache.Close(); err != nil {
		log.Logger.Error().Err(err).Msg("failed to close profile cache")
	}
	DB.Close()
}
