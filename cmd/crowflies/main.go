package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/crowflies/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/crowflies/internal/adapter/kafka"
	"github.com/couchcryptid/crowflies/internal/config"
	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/couchcryptid/crowflies/internal/observability"
	"github.com/couchcryptid/crowflies/internal/pipeline"
	"github.com/joho/godotenv"
)

// service holds the wired components of a running process. pipeline, reader
// and writer are nil when the Kafka query pipeline is disabled.
type service struct {
	dir      *domain.Directory
	server   *httpadapter.Server
	pipeline *pipeline.Pipeline
	reader   *kafkaadapter.Reader
	writer   *kafkaadapter.Writer
}

// newService loads the dataset and wires the HTTP server and, when enabled,
// the Kafka pipeline. /readyz gates on the Directory only: the pipeline's
// readiness flips on its first batch, which never comes on an idle topic, and
// the HTTP surface answers queries regardless.
func newService(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*service, error) {
	start := time.Now()
	dir, err := dataset.LoadFile(cfg.DatasetPath, dataset.Options{Duplicates: cfg.Duplicates})
	if err != nil {
		return nil, err
	}
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	metrics.DirectoryLocations.Set(float64(dir.Len()))
	logger.Info("dataset loaded",
		"path", cfg.DatasetPath,
		"locations", dir.Len(),
		"duplicates", cfg.Duplicates.String(),
		"unit", cfg.Unit.Symbol,
	)

	resolver := domain.NewResolver(dir, domain.NewEngine(cfg.Unit))
	svc := &service{
		dir:    dir,
		server: httpadapter.NewServer(cfg.HTTPAddr, dir, resolver, metrics, logger),
	}

	if cfg.KafkaEnabled {
		svc.reader = kafkaadapter.NewReader(cfg, logger)
		svc.writer = kafkaadapter.NewWriter(cfg, logger)
		svc.pipeline = pipeline.New(svc.reader, pipeline.NewTransformer(resolver), svc.writer, logger, metrics, cfg.BatchSize)
	} else {
		logger.Info("kafka query pipeline disabled")
	}
	return svc, nil
}

// close releases the Kafka clients, if any.
func (s *service) close(logger *slog.Logger) {
	if s.reader != nil {
		if err := s.reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	svc, err := newService(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if svc.pipeline != nil {
		go func() {
			if err := svc.pipeline.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	go func() {
		if err := svc.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := svc.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	svc.close(logger)

	logger.Info("shutdown complete")
}
