package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/config"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/http/handlers"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/http/middleware"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/integration/gohighlevel"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/integration/slack"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/logger"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/mail"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/queue"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// RabbitMQ is optional: without it, lead events are simply not
	// published and the webhook flow is unaffected.
	var producer usecase.EventPublisherInterface
	var amqpConn *amqp.Connection
	if cfg.HasAMQPConfig() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPUser, cfg.AMQPPass, cfg.AMQPHost, cfg.AMQPPort)
		if err != nil {
			log.Error("rabbitmq unavailable, lead events disabled", "error", err.Error())
		} else {
			defer rabbitMQ.Conn.Close()
			defer rabbitMQ.Ch.Close()
			amqpConn = rabbitMQ.Conn
			producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
		}
	}

	actionLog := log.Named("action")

	crm := gohighlevel.NewClient(cfg.GHLBaseURL, cfg.GHLAPIKey, cfg.GHLPipelineID, cfg.GHLStageID, actionLog)
	notifier := slack.NewClient(cfg.SlackWebhookURL, log.Named("error"))

	var mailer usecase.AlertMailer
	if cfg.HasMailConfig() {
		mailer = mail.NewAlertSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.MailTo)
	}

	syncLeadUC := usecase.NewSyncLeadUseCase(crm, notifier, mailer, producer, actionLog)
	syncShortLeadUC := usecase.NewSyncShortLeadUseCase(crm, notifier, mailer, producer, actionLog)

	webhookHandler := handlers.NewWebhookHandler(syncLeadUC, syncShortLeadUC, log.Named("webhook"))
	healthHandler := handlers.NewHealthHandler(cfg, amqpConn)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	r.Use(middleware.Metrics)

	r.Post("/webhook", webhookHandler.HandleFull)
	r.Post("/webhook/short", webhookHandler.HandleShort)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	if !cfg.HasGHLConfig() {
		log.Error("GoHighLevel credentials missing, webhooks will fail")
	}

	log.Info("lead sync server listening", "port", cfg.Port)
	http.ListenAndServe(":"+cfg.Port, r)
}
