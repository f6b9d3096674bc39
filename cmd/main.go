package main

import (
	"context"
	"database/sql"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	_ "controlling_motor/docs"
	"controlling_motor/internal/bus"
	"controlling_motor/internal/clock"
	"controlling_motor/internal/controller"
	"controlling_motor/internal/handlers"
	"controlling_motor/internal/journal"
	"controlling_motor/internal/logger"
	"controlling_motor/internal/models"
	"controlling_motor/internal/repository"
	"controlling_motor/internal/repository/db"
	"controlling_motor/internal/server"
	"controlling_motor/internal/service"
	"controlling_motor/internal/session"
)

const shutdownTimeout = 10 * time.Second

// @title                       Motor Controller API
// @version                     1.0
// @description                 Relay control, protection status and telemetry sync for a single motor controller.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.basic   BasicAuth
func main() {
	cfg, cfgErr := loadConfig(viper.New())

	// init logger
	log := logger.Get(cfg.LogLevel)
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}
	if len(cfg.BadDeviceKeys) > 0 {
		log.Warnw("ignoring unparseable device values from config", "keys", cfg.BadDeviceKeys)
	}
	if cfg.EphemeralKey {
		log.Warnw("auth.signing_key not set; generated a key for this run, tokens will not survive a restart")
	}

	// open DB
	database, err := openDB(cfg.DBPath, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()
	repos := repository.NewRepository(database)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := newController(ctx, cfg, repos, log)

	var pub service.Publisher
	if cfg.NATSURL != "" {
		p, err := bus.NewPublisher(cfg.NATSURL)
		if err != nil {
			log.Warnw("nats unavailable; publishing disabled", "url", cfg.NATSURL, "err", err)
		} else {
			defer p.Close()
			pub = p
		}
	}

	var jr service.Journal
	if cfg.JournalPath != "" {
		if sum, err := journal.Scan(cfg.JournalPath); err != nil {
			log.Warnw("journal has an unreadable entry", "path", cfg.JournalPath,
				"events", sum.Events, "sessions", sum.Sessions, "err", err)
		} else {
			log.Infow("journal scanned", "path", cfg.JournalPath,
				"events", sum.Events, "sessions", sum.Sessions, "last", sum.LastRecord)
		}
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			log.Warnw("journal unavailable", "path", cfg.JournalPath, "err", err)
		} else {
			defer j.Close()
			jr = j
		}
	}

	// wire dependencies
	services := service.NewService(service.Deps{
		Repos:      repos,
		Controller: ctrl,
		Auth:       cfg.Auth,
		Info:       cfg.Info,
		Journal:    jr,
		Publisher:  pub,
		Subjects:   bus.NewSubjects(cfg.NATSPrefix),
		Log:        log,
	})
	if created, err := services.EnsureUser(ctx, cfg.AdminUser, cfg.AdminPassword); err != nil {
		log.Errorw("failed to seed operator account", "user", cfg.AdminUser, "err", err)
	} else if created {
		log.Infow("seeded operator account", "user", cfg.AdminUser)
	}
	apiHandler := handlers.NewHandler(services, log)

	go services.Runner.Run(ctx)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// newController restores persisted settings and recent sessions.
func newController(ctx context.Context, cfg appConfig, repos *repository.Repository, log *logger.Logger) *controller.Controller {
	devCfg, cal, err := service.RestoreSettings(ctx, repos.Config, cfg.Device, models.DefaultCalibration(), log)
	if err != nil {
		log.Warnw("using default settings", "err", err)
	}
	history, err := repos.Sessions.Recent(ctx, session.DefaultCapacity)
	if err != nil {
		log.Warnw("session history unavailable", "err", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return controller.New(controller.Options{
		Clock:       clock.NewSystem(),
		Rand:        rand.New(rand.NewPCG(seed, seed>>1|1)),
		Config:      devCfg,
		Calibration: cal,
		History:     history,
		Glitches:    cfg.Glitches,
		Log:         log.Component("controller"),
	})
}

// openDB initializes the SQLite database using configuration.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
