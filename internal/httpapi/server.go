package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/apiconnect/internal/httpapi/middleware"
	"github.com/hamed0406/apiconnect/internal/probe"
)

type Server struct {
	Logger   *zap.Logger
	Prober   probe.Runner
	Vendors  []probe.Descriptor
	Registry *prometheus.Registry // nil disables /metrics
}

func NewServer(l *zap.Logger, p probe.Runner, vendors []probe.Descriptor, reg *prometheus.Registry) *Server {
	return &Server{Logger: l, Prober: p, Vendors: vendors, Registry: reg}
}

// RouterOptions controls the outer surface. Zero RateLimitRPM disables
// limiting; empty AllowedOrigins allows every origin.
type RouterOptions struct {
	AllowedOrigins []string
	RateLimitRPM   int
	RateLimitBurst int
}

func (s *Server) Router(o RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.AccessLog(s.Logger))
	if len(o.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: o.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(o.RateLimitRPM, o.RateLimitBurst))
		for _, d := range s.Vendors {
			r.Get("/connect/"+d.Name, s.handleConnect(d))
		}
	})
	return r
}

// handleConnect answers 200 whenever the probe ran to completion, whatever it
// found; the log carries the verdict. Only faults the probe did not model
// (including panics) become a 500.
func (s *Server) handleConnect(d probe.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.fail(w, r, d, fmt.Errorf("panic: %v", rec))
			}
		}()

		if _, err := s.Prober.Probe(r.Context(), d); err != nil {
			s.fail(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": d.Label + " connection tested successfully.",
		})
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, d probe.Descriptor, err error) {
	s.Logger.Error(fmt.Sprintf("Error in %s connection: %v", d.Label, err),
		zap.String("provider", d.Name),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Bool("malformed", probe.IsMalformed(err)),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"detail": "Error connecting to " + d.Label,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
