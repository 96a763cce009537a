// The pacer-demo binary exercises the library end to end: synthetic jobs
// iterate under metrics-instrumented bars with console logging redirected,
// while /metrics is served for scraping.
package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/pacer"
	"github.com/JakeFAU/pacer/backend/console"
	_ "github.com/JakeFAU/pacer/backend/richterm" // rich rendering on live terminals
	"github.com/JakeFAU/pacer/logredirect"
	"github.com/JakeFAU/pacer/metrics"
)

func main() {
	var (
		addr  = flag.String("addr", ":8080", "metrics listen address")
		items = flag.Int("items", 200, "items per demo job")
		jobs  = flag.Int("jobs", 3, "number of demo jobs")
		delay = flag.Duration("delay", 10*time.Millisecond, "per-item work simulation")
	)
	flag.Parse()

	router := logredirect.Default()
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	router.SetCores([]zapcore.Core{
		logredirect.NewConsoleCore(enc, os.Stderr, zapcore.InfoLevel),
	})
	logger := zap.New(router)
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	be, err := metrics.Instrument(console.Default(), reg)
	if err != nil {
		logger.Fatal("instrument backend", zap.Error(err))
	}

	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", *addr))

	for j := 0; j < *jobs; j++ {
		jobID := uuid.New()
		log := logger.With(zap.String("job_id", jobID.String()))
		logredirect.Scope(nil, func() {
			for i := range pacer.Range(*items,
				pacer.WithBackend(be),
				pacer.WithDescription("job "+jobID.String()[:8]),
			) {
				time.Sleep(*delay)
				if i > 0 && i%50 == 0 {
					log.Info("checkpoint", zap.Int("item", i))
				}
			}
		}, logredirect.WithBackend(be))
		log.Info("job complete")
	}

	_ = srv.Close()
}
