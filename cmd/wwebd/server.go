package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
	"whatsweb/internal/middleware"
	"whatsweb/internal/models"
	"whatsweb/internal/privacy"
	"whatsweb/internal/validation"
	"whatsweb/pkg/wweb"
)

// Server exposes event ingestion and snapshot inspection over HTTP.
type Server struct {
	router     *mux.Router
	logger     *logrus.Logger
	cfg        models.ServerConfig
	client     *wweb.Client
	dispatcher *wweb.EventDispatcher
	registry   *metrics.Registry
	health     func(context.Context) error
	server     *http.Server
}

func NewServer(cfg models.ServerConfig, a *app, logger *logrus.Logger) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		logger:     logger,
		cfg:        cfg,
		client:     a.client,
		dispatcher: a.dispatcher,
		registry:   a.registry,
		health:     a.health,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger, s.registry))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	protected := s.router.NewRoute().Subrouter()
	protected.Use(middleware.RequireAPIKey(s.cfg.EventsAPIKey))
	protected.HandleFunc("/events/{event}", s.handleEvent()).Methods(http.MethodPost)
	protected.HandleFunc("/snapshots/{kind}/{id}", s.handleSnapshot()).Methods(http.MethodGet)
}

func (s *Server) Start() error {
	s.logger.Infof("Starting server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if err := s.health(ctx); err != nil {
				s.logger.WithError(err).Warn("Bridge health check failed")
				middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":  "degraded",
					"bridge":  "unavailable",
					"version": Version,
				})
				return
			}
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"bridge":  "ok",
			"version": Version,
		})
	}
}

func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, s.registry.Snapshot())
	}
}

func (s *Server) handleEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := mux.Vars(r)["event"]
		if !wweb.Event(event).Supported() {
			middleware.WriteError(w, r, apperrors.NewNotFoundError("event", event), 0)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxEventBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				middleware.WriteError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "event body too large").
					WithUserMessage("Event body too large"), http.StatusRequestEntityTooLarge)
				return
			}
			middleware.WriteError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "failed to read event body"), http.StatusBadRequest)
			return
		}

		s.registry.Inc(metrics.EventsReceived, map[string]string{"event": event, "source": "http"})

		entity, err := s.dispatcher.Dispatch(r.Context(), event, body)
		switch {
		case entity == nil && err != nil:
			middleware.WriteError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid event payload").
				WithUserMessage("Event payload must be a JSON object"), http.StatusBadRequest)
			return
		case entity == nil:
			middleware.WriteError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "event carried no payload").
				WithUserMessage("Event payload is empty"), http.StatusBadRequest)
			return
		case err != nil:
			s.logger.WithError(err).WithFields(apperrors.Fields(err)).WithField("event", event).Warn("Event handlers failed")
			middleware.WriteError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "event handlers failed").
				WithUserMessage("Event handlers failed"), http.StatusInternalServerError)
			return
		}

		middleware.WriteJSON(w, http.StatusAccepted, map[string]any{
			"event":  event,
			"entity": entity,
		})
	}
}

func (s *Server) handleSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		kind, id := vars["kind"], vars["id"]
		if err := validation.ValidateEntityID("id", id); err != nil {
			middleware.WriteError(w, r, err, 0)
			return
		}

		entity, err := s.loadCached(r.Context(), kind, id)
		if err != nil {
			middleware.WriteError(w, r, err, 0)
			return
		}
		if entity == nil {
			middleware.WriteError(w, r, apperrors.NewNotFoundError(kind, id), 0)
			return
		}

		s.logger.WithFields(logrus.Fields{
			privacy.FieldKind:   kind,
			privacy.FieldChatID: privacy.MaskChatID(id),
		}).Debug("Served snapshot")
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"kind":   kind,
			"entity": entity,
		})
	}
}

// loadCached returns nil without error when nothing is stored.
func (s *Server) loadCached(ctx context.Context, kind, id string) (any, error) {
	switch kind {
	case wweb.KindChat:
		chat, err := s.client.CachedChat(ctx, id)
		if err != nil || chat == nil {
			return nil, err
		}
		return chat, nil
	case wweb.KindContact:
		contact, err := s.client.CachedContact(ctx, id)
		if err != nil || contact == nil {
			return nil, err
		}
		return contact, nil
	case wweb.KindMessage:
		msg, err := s.client.CachedMessage(ctx, id)
		if err != nil || msg == nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, apperrors.NewValidationError("kind", kind, "unknown snapshot kind")
	}
}
