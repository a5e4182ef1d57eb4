package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/chain"
	"github.com/jeffleon2/draftea-settlement-service/internal/database"
	handlers "github.com/jeffleon2/draftea-settlement-service/internal/handlers"
	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/monitor"
	"github.com/jeffleon2/draftea-settlement-service/internal/publisher"
	"github.com/jeffleon2/draftea-settlement-service/internal/repository/posgrest"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/jeffleon2/draftea-settlement-service/internal/subscriber"
	"github.com/sirupsen/logrus"
)

type App struct {
	config    *config.Config
	Router    *gin.Engine
	monitor   *monitor.SettlementMonitor
	payments  *service.PaymentService
	publisher *publisher.KafkaPublisher
	consumer  *subscriber.KafkaConsumer
	handler   *handlers.PaymentHandler
}

func (a *App) Initialize(cfg *config.Config) {
	a.config = cfg
	db, err := cfg.DB.GormConnect()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Payment{}); err != nil {
		log.Fatalf("failed to auto migrate: %v", err)
	}

	if cfg.APP.ENV == "local" {
		if err := database.SeedPayments(db, cfg.Fee.Wallet); err != nil {
			logrus.Errorf("failed to seed payments: %v", err)
		}
	}

	var events service.Publisher
	var expiries monitor.Publisher
	if cfg.Kafka.Enabled {
		publishTopics := strings.Split(cfg.Kafka.PublishTopics, ",")
		a.publisher = publisher.NewKafkaPublisher(strings.Split(cfg.Kafka.Brokers, ","), publishTopics, cfg.GetRetryConfig())
		events = a.publisher
		expiries = a.publisher
	}

	paymentRepo := posgrest.New[models.Payment](db)
	paymentService := service.NewPaymentService(paymentRepo, events, cfg.Payment)
	a.payments = paymentService

	conn := monitor.NewConnection(cfg.Solana.WSURL, cfg.Monitor.ReconnectDelay)
	chainClient := chain.NewClient(cfg.Solana.RPCURL)
	a.monitor = monitor.NewSettlementMonitor(monitor.OptionsFromConfig(cfg), conn, chainClient, paymentService, expiries)

	metrics.RegisterMetrics(
		func() float64 { return float64(a.monitor.ActiveWatchCount()) },
		func() float64 {
			if a.monitor.IsConnected() {
				return 1
			}
			return 0
		},
	)

	a.handler = handlers.NewPaymentHandler(paymentService, a.monitor)

	a.Router = gin.Default()
	a.Router.Use(gin.Recovery())
	a.RegisterRoutes(a.handler)
}

// rewatchPending registers watches for payments left pending by a previous
// process, since the registry only lives in memory.
func (a *App) rewatchPending(ctx context.Context) {
	pending, err := a.payments.PendingPayments(ctx)
	if err != nil {
		logrus.Errorf("failed to load pending payments: %v", err)
		return
	}
	for i := range pending {
		if err := a.monitor.WatchPayment(ctx, &pending[i]); err != nil {
			logrus.WithField("payment_id", pending[i].ID).Warnf("failed to rewatch payment: %v", err)
		}
	}
	if len(pending) > 0 {
		logrus.Infof("rewatching %d pending payments", len(pending))
	}
}

// Run serves HTTP and runs the monitor and Kafka consumer until SIGINT or
// SIGTERM, then shuts them down in order.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitorDone := make(chan error, 1)
	go func() { monitorDone <- a.monitor.Run(ctx) }()
	a.rewatchPending(ctx)

	if a.config.Kafka.Enabled {
		a.initSubscribers(ctx)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", a.config.APP.PORT),
		Handler: a.Router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("http server failed: %v", err)
		}
	}()
	logrus.Infof("settlement service listening on :%s", a.config.APP.PORT)

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http shutdown: %v", err)
	}
	if err := <-monitorDone; err != nil {
		logrus.Errorf("monitor stopped with error: %v", err)
	}
	if a.consumer != nil {
		a.consumer.Wait()
		if err := a.consumer.Close(); err != nil {
			logrus.Errorf("closing kafka readers: %v", err)
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			logrus.Errorf("closing kafka writers: %v", err)
		}
	}
}

func (a *App) initSubscribers(ctx context.Context) {
	brokers := strings.Split(a.config.Kafka.Brokers, ",")
	topics := strings.Split(a.config.Kafka.SubscriberTopics, ",")
	groupID := a.config.Kafka.SettlementGroup

	var dlq subscriber.Publisher
	if a.publisher != nil {
		dlq = a.publisher
	}
	a.consumer = subscriber.NewMultiTopicConsumer(brokers, topics, groupID, dlq, a.config.GetRetryConfig())

	a.consumer.Listen(ctx, func(ctx context.Context, topic string, value []byte) error {
		logrus.Infof("Received message topic=%s value=%s", topic, string(value))
		return a.handler.HandleEvents(ctx, topic, value)
	})
}
