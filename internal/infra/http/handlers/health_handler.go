package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/config"
)

type HealthHandler struct {
	Config    *config.Config
	RabbitMQ  *amqp091.Connection
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(cfg *config.Config, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		Config:    cfg,
		RabbitMQ:  rabbitMQ,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.Config.HasGHLConfig() {
		deps["gohighlevel"] = "configured"
	} else {
		deps["gohighlevel"] = "not configured"
	}

	if h.Config.HasSlackConfig() {
		deps["slack"] = "configured"
	} else {
		deps["slack"] = "not configured"
	}

	if h.Config.HasMailConfig() {
		deps["smtp"] = "configured"
	} else {
		deps["smtp"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	uptime := time.Since(h.StartTime).Round(time.Second).String()

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       uptime,
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}
