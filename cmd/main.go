package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roastwatch/internal/engine"
	"roastwatch/internal/handlers"
	"roastwatch/internal/logger"
	"roastwatch/internal/repository"
	"roastwatch/internal/repository/db"
	"roastwatch/internal/server"
	"roastwatch/internal/service"

	"github.com/spf13/viper"
)

const defaultMonitorTick = time.Minute

// @title           roastwatch API
// @version         1.0
// @description     Predictive tracker for low-and-slow cooks: readings in, ETA and oven recommendations out.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, engineSettings(), signingKey(log))
	apiHandler := handlers.NewHandler(services, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Monitor.Run(ctx, monitorTick())

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "roastwatch.db")
		dbPath = "roastwatch.db"
	}
	return db.InitDB(dbPath)
}

// engineSettings starts from the documented defaults and applies any
// overrides present in the config file.
func engineSettings() engine.Settings {
	s := engine.DefaultSettings()
	if v := viper.GetInt("engine.smoothing_window"); v > 0 {
		s.SmoothingWindow = v
	}
	if v := viper.GetFloat64("engine.on_track_threshold_min"); v > 0 {
		s.OnTrackThresholdMin = v
	}
	if v := viper.GetFloat64("engine.step_f"); v > 0 {
		s.StepF = v
	}
	if v := viper.GetFloat64("engine.max_step_f"); v > 0 {
		s.MaxStepF = v
	}
	if v := viper.GetFloat64("engine.oven_temp_min_f"); v > 0 {
		s.OvenTempMinF = v
	}
	if v := viper.GetFloat64("engine.oven_temp_max_f"); v > 0 {
		s.OvenTempMaxF = v
	}
	if v := viper.GetFloat64("engine.practical_min_f"); v > 0 {
		s.PracticalMinF = v
	}
	if viper.IsSet("engine.allow_low_temp") {
		s.AllowLowTemp = viper.GetBool("engine.allow_low_temp")
	}
	if v := viper.GetInt("engine.min_readings_for_rec"); v > 0 {
		s.MinReadingsForRec = v
	}
	if v := viper.GetFloat64("engine.min_time_span_min"); v > 0 {
		s.MinTimeSpanMin = v
	}
	if v := viper.GetFloat64("engine.oven_temp_stale_min"); v > 0 {
		s.OvenTempStaleMin = v
	}
	if v := viper.GetFloat64("engine.thermal_lag_min"); v > 0 {
		s.ThermalLagMin = v
	}
	if v := viper.GetFloat64("engine.min_useful_rate_per_hour"); v > 0 {
		s.MinUsefulRatePerHour = v
	}
	return s
}

func signingKey(log *logger.Logger) string {
	key := viper.GetString("auth.signing_key")
	if key == "" {
		log.Warnw("auth.signing_key not set; using insecure development key")
		key = "dev-only-signing-key"
	}
	return key
}

func monitorTick() time.Duration {
	if d := viper.GetDuration("monitor.tick"); d > 0 {
		return d
	}
	return defaultMonitorTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
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

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
