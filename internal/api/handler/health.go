package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

type dependencyCheck struct {
	name  string
	check func(context.Context) error
}

// HealthHandler serves the liveness and readiness checks. Only the backing
// services the process was started with are checked.
type HealthHandler struct {
	checks []dependencyCheck
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	h := &HealthHandler{}
	if db != nil {
		h.checks = append(h.checks, dependencyCheck{"mongodb", func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		}})
	}
	if rdb != nil {
		h.checks = append(h.checks, dependencyCheck{"redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return h
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. Any failing check turns the answer
// into 503 "degraded".
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.checks))}
	code := http.StatusOK
	for _, p := range h.checks {
		if err := p.check(ctx); err != nil {
			resp.Dependencies[p.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			resp.Status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[p.name] = dependencyStatus{Status: "ok"}
	}
	return c.JSON(code, resp)
}
