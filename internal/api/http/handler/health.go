package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/contactbook-server/internal/api/http/response"
	"github.com/dtroode/contactbook-server/internal/logger"
)

// HealthChecker probes a backing dependency.
type HealthChecker interface {
	Check(ctx context.Context) error
}

type Health struct {
	checker HealthChecker
	logger  *logger.Logger
}

func NewHealth(checker HealthChecker, logger *logger.Logger) *Health {
	return &Health{checker: checker, logger: logger}
}

// Liveness answers without touching any dependency.
func (h *Health) Liveness(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Database checks that the database answers queries.
func (h *Health) Database(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.Check(r.Context()); err != nil {
		h.logger.Error("Health handler: database check failed",
			"error", err.Error())
		response.JSON(w, http.StatusInternalServerError, response.ErrorBody{Detail: "Error connecting to the database"})
		return
	}

	response.Message(w, "Welcome to the contact book API!")
}
