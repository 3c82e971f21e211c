package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/sumedhd1118/chargback-export/pkg/handlers/schedule"
	cbmiddleware "github.com/sumedhd1118/chargback-export/pkg/server/middleware"
)

type StatusServer struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Schedule handlers.StatusProvider
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(logger zerolog.Logger, config Config) *chi.Mux {
	h := handlers.NewHandler(config.Dependencies.Schedule)

	router := chi.NewRouter()
	router.Use(cbmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", h.Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/schedule", h.GetStatus)
	})

	return router
}

func NewStatusServer(logger zerolog.Logger, config Config) *StatusServer {
	router := ConfigureRouter(logger, config)

	return &StatusServer{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves in the background. Listen errors are reported on the returned channel.
func (s *StatusServer) Start() <-chan error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting status server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()
	return errs
}

func (s *StatusServer) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("status server shutdown initiated")

	err := s.server.Shutdown(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("graceful shutdown failed")
		err = s.server.Close()
	}
	return err
}
