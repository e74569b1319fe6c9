package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/orientapi/config"
	"github.com/padraicbc/orientapi/db"
	"github.com/padraicbc/orientapi/engine"
	"github.com/padraicbc/orientapi/handlers"
	applog "github.com/padraicbc/orientapi/logger"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	eng := engine.New(bdb)
	h := handlers.New(bdb, eng, cfg.StorageTimeout)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	api := e.Group("/api")

	api.GET("/health", h.Health)
	api.GET("/health/db", h.HealthDB)

	// Scan ingestion and crossing events
	api.POST("/events", h.CreateEvents)
	api.GET("/events", h.ListEvents)
	api.GET("/events/:id", h.GetEvent)
	api.DELETE("/events/:id", h.DeleteEvent)
	api.GET("/events/race/:raceID/participant/:participantID", h.RaceParticipantEvents)

	// Races, courses, rosters
	api.POST("/races", h.CreateRace)
	api.GET("/races", h.ListRaces)
	api.GET("/races/:id", h.GetRace)
	api.PUT("/races/:id", h.UpdateRace)
	api.DELETE("/races/:id", h.DeleteRace)
	api.GET("/races/:id/checkpoints", h.GetCourse)
	api.POST("/races/:id/checkpoints", h.AppendCourseCheckpoint)
	api.PUT("/races/:id/checkpoints", h.ReplaceCourse)
	api.DELETE("/races/:id/checkpoints/:checkpointID", h.RemoveCourseCheckpoint)
	api.GET("/races/:id/participants", h.GetRoster)
	api.POST("/races/:id/participants", h.AddRosterParticipant)
	api.DELETE("/races/:id/participants/:participantID", h.RemoveRosterParticipant)

	// Identity registration
	api.POST("/checkpoints", h.CreateCheckpoint)
	api.GET("/checkpoints", h.ListCheckpoints)
	api.GET("/checkpoints/:id", h.GetCheckpoint)
	api.PUT("/checkpoints/:id", h.UpdateCheckpoint)
	api.DELETE("/checkpoints/:id", h.DeleteCheckpoint)
	api.POST("/participants", h.CreateParticipant)
	api.GET("/participants", h.ListParticipants)
	api.GET("/participants/:id", h.GetParticipant)
	api.PUT("/participants/:id", h.UpdateParticipant)
	api.DELETE("/participants/:id", h.DeleteParticipant)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
