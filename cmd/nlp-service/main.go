package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/omrozmn/x-ear-nlp/pkg/common/config"
	"github.com/omrozmn/x-ear-nlp/pkg/common/database"
	"github.com/omrozmn/x-ear-nlp/pkg/common/kafka"
	"github.com/omrozmn/x-ear-nlp/pkg/common/logger"
	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
	"github.com/omrozmn/x-ear-nlp/pkg/nlp"
	"github.com/omrozmn/x-ear-nlp/pkg/observability/metrics"
)

func main() {
	logger.Init()
	cfg := config.Load()

	service := nlp.NewService(cfg)

	if cfg.ResultCacheTTL > 0 {
		service = service.WithCache(database.GetRedis())
	}

	var repo *nlp.Repository
	if cfg.AuditEnabled {
		db, err := database.GetPostgres()
		if err != nil {
			logger.Log.WithError(err).Warn("Audit trail disabled, PostgreSQL unavailable")
		} else {
			repo = nlp.NewRepository(db)
			if err := repo.AutoMigrate(); err != nil {
				logger.Log.WithError(err).Warn("Audit trail disabled, migration failed")
				repo = nil
			} else {
				service = service.WithRepository(repo)
			}
		}
	}

	// Warm the pipeline before accepting traffic; on failure the
	// service lazily retries on the first request.
	if err := service.Initialize(); err != nil {
		logger.Log.WithError(err).Error("Failed to initialize NLP pipeline")
	}

	producer := kafka.NewProducer(cfg.ResultTopic)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.DocumentTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
			text, _ := event.Data["text"].(string)
			docType, _ := event.Data["type"].(string)

			result, err := service.ProcessDocument(ctx, text, docType)
			if err != nil {
				if errors.Is(err, nlp.ErrEmptyInput) {
					logger.Log.WithField("event_id", event.ID).Warn("Skipping document event without text")
					return nil
				}
				return err
			}
			metrics.IncDocumentsProcessed()

			return producer.PublishEvent(ctx, "nlp_result", "nlp-service", map[string]interface{}{
				"source_event_id": event.ID,
				"result":          result,
			})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Consumer stopped")
		}
	}()

	router := mux.NewRouter()
	nlp.NewHandler(service, repo).Register(router)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      http.MaxBytesHandler(router, cfg.MaxRequestBody),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("NLP service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down NLP service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("NLP service stopped")
}
