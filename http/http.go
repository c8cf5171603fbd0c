package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ListenAndServe runs the given servers until ctx is done. Servers then get
// shutdownTimeout to finish their in-flight requests before being closed.
//
// Shutdown does not track hijacked connections such as WebSockets. Servers
// that hold them must close them from a RegisterOnShutdown hook.
func ListenAndServe(ctx context.Context, shutdownTimeout time.Duration, servers ...*http.Server) {
	go func() {
		<-ctx.Done()
		shutdown(shutdownTimeout, servers...)
	}()

	var wg sync.WaitGroup

	for _, s := range servers {
		wg.Add(1)

		go func(s *http.Server) {
			defer wg.Done()
			serve(s)
		}(s)
	}

	wg.Wait()
}

func serve(s *http.Server) {
	logs.WithTag("addr", s.Addr).Info("starting server")

	switch err := s.ListenAndServe(); err {
	case nil, http.ErrServerClosed:
		logs.WithTag("addr", s.Addr).Info("server stopped")

	default:
		logs.WithTag("addr", s.Addr).
			Warn(errors.New("server stopped unexpectedly").Wrap(err))
	}
}

func shutdown(timeout time.Duration, servers ...*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var wg sync.WaitGroup

	for _, s := range servers {
		wg.Add(1)

		go func(s *http.Server) {
			defer wg.Done()

			if err := s.Shutdown(ctx); err != nil {
				logs.WithTag("addr", s.Addr).
					WithTag("timeout", timeout).
					Warn(errors.New("graceful shutdown failed, closing connections").Wrap(err))
				s.Close()
			}
		}(s)
	}

	wg.Wait()
}

// MetricsPathFormatter returns a path formatter for request metrics that only
// keeps the given routes. Other paths, and requests answered with 301, 400, 404
// or 405, are reported with an empty path so that random URLs do not create
// new metric series.
func MetricsPathFormatter(routes ...string) func(statusCode int, path string) string {
	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[r] = struct{}{}
	}

	return func(statusCode int, path string) string {
		switch statusCode {
		case http.StatusMovedPermanently,
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusMethodNotAllowed:
			return ""
		}

		if _, ok := known[path]; !ok {
			return ""
		}
		return path
	}
}
