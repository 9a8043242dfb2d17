// Package server exposes the update pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/healthz"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/ddns"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/version"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Pipeline is the update processing the server delegates to.
// *ddns.Processor implements it.
type Pipeline interface {
	Process(ctx context.Context, req ddns.Request) ddns.Result
	Check(ctx context.Context) error
}

// Server serves the update and version endpoints plus health probes and
// metrics.
type Server struct {
	addr              string
	pipeline          Pipeline
	trustForwardedFor bool
	log               logr.Logger
}

// New creates a Server listening on addr. When trustForwardedFor is set the
// last X-Forwarded-For entry, the one appended by the fronting proxy, is
// taken as the client address.
func New(log logr.Logger, addr string, pipeline Pipeline, trustForwardedFor bool) *Server {
	return &Server{addr: addr, pipeline: pipeline, trustForwardedFor: trustForwardedFor, log: log}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/update", s.handleUpdate)
	router.POST("/update", s.handleUpdate)
	router.GET("/version", s.handleVersion)

	healthzHandler := http.StripPrefix("/healthz", &healthz.Handler{Checks: map[string]healthz.Checker{
		"ping": healthz.Ping,
	}})
	readyzHandler := http.StripPrefix("/readyz", &healthz.Handler{Checks: map[string]healthz.Checker{
		"config": func(r *http.Request) error { return s.pipeline.Check(r.Context()) },
	}})
	router.Handler(http.MethodGet, "/healthz", healthzHandler)
	router.Handler(http.MethodGet, "/healthz/:check", healthzHandler)
	router.Handler(http.MethodGet, "/readyz", readyzHandler)
	router.Handler(http.MethodGet, "/readyz/:check", readyzHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return router
}

// Start serves until ctx is cancelled, then shuts down gracefully. Requests
// in flight at that point run to completion within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		s.log.V(1).Info("malformed form body", "error", err.Error())
	}
	req := ddns.Request{
		Hostname:   r.Form.Get("hostname"),
		Hash:       r.Form.Get("hash"),
		InternalIP: r.Form.Get("internalip"),
		SourceIP:   s.sourceIP(r),
	}
	res := s.pipeline.Process(r.Context(), req)
	writeResponse(w, ddns.FormatResult(res, isRaw(r)))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := isRaw(r)
	if err := s.pipeline.Check(r.Context()); err != nil {
		writeResponse(w, ddns.FormatResult(ddns.Failure(err), raw))
		return
	}
	writeResponse(w, ddns.FormatVersion(version.Get(), raw))
}

func (s *Server) sourceIP(r *http.Request) string {
	if s.trustForwardedFor {
		if hops := r.Header.Values("X-Forwarded-For"); len(hops) > 0 {
			last := hops[len(hops)-1]
			if i := strings.LastIndex(last, ","); i >= 0 {
				last = last[i+1:]
			}
			if ip := strings.TrimSpace(last); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// isRaw reports whether the raw flag is present, with or without a value.
func isRaw(r *http.Request) bool {
	_, ok := r.URL.Query()["raw"]
	if !ok && r.Form != nil {
		_, ok = r.Form["raw"]
	}
	return ok
}

func writeResponse(w http.ResponseWriter, resp ddns.Response) {
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}
