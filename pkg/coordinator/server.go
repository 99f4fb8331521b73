package coordinator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/driftfs/driftfs/pkg/config"
	"github.com/driftfs/driftfs/pkg/log"
	"github.com/driftfs/driftfs/pkg/metastore"
	"github.com/driftfs/driftfs/pkg/metrics"
)

// Server is the coordinator's control plane: the HTTP+JSON API, the lazy
// liveness reaper (run by the store on every active-set read), and the
// best-effort DeleteBlock fan-out after removals.
type Server struct {
	cfg     config.Config
	store   metastore.Store
	deleter *deleter
	logger  zerolog.Logger
	httpSrv *http.Server
}

// New wires a coordinator over a metadata store.
func New(cfg config.Config, store metastore.Store) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		deleter: newDeleter(),
		logger:  log.WithComponent("coordinator"),
	}
}

// Router builds the endpoint table. Every route is explicit; there is no
// reflective dispatch.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/mkdir", s.handleMkdir).Methods(http.MethodPost)
	r.HandleFunc("/ls", s.handleLs).Methods(http.MethodGet)
	r.HandleFunc("/rm", s.handleRm).Methods(http.MethodPost)
	r.HandleFunc("/rmdir", s.handleRmdir).Methods(http.MethodPost)
	r.HandleFunc("/put/initiate", s.handlePutInitiate).Methods(http.MethodPost)
	r.HandleFunc("/put/complete", s.handlePutComplete).Methods(http.MethodPost)
	r.HandleFunc("/get", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/datanode/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/datanode/heartbeat", s.handleHeartbeat).Methods(http.MethodPost)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.Use(s.requestMiddleware)
	return r
}

// requestMiddleware tags every request with an id and records counters and
// latency per endpoint.
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.New().String()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		endpoint := r.URL.Path
		metrics.APIRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", rec.status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		s.logger.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", endpoint).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Start marks stale registry rows inactive, then serves until Stop.
func (s *Server) Start() error {
	if _, err := s.store.ActiveNodes(); err != nil {
		return fmt.Errorf("startup liveness pass failed: %w", err)
	}

	s.httpSrv = &http.Server{
		Addr:         s.cfg.CoordinatorListen,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Info().Str("listen", s.cfg.CoordinatorListen).Msg("Coordinator serving")
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the control plane down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
