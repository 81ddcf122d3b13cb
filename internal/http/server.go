// README: API gateway; owns the http.Server around the gin router.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"tripsage/internal/modules/aiusage"
	"tripsage/internal/modules/session"
)

const shutdownTimeout = 10 * time.Second

type ServerDeps struct {
	Addr     string
	Sessions *session.Service
	// Quota is nil when no database is configured.
	Quota *aiusage.Service
	// AITimeout bounds one estimation; the write timeout is derived from it.
	AITimeout time.Duration
}

type Server struct {
	srv *http.Server
}

func NewServer(deps ServerDeps) *Server {
	return &Server{srv: &http.Server{
		Addr:              deps.Addr,
		Handler:           NewRouter(deps.Sessions, deps.Quota),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      deps.AITimeout + 15*time.Second,
	}}
}

func (s *Server) Routes() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.srv.Addr).Info("http: listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("http: shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
