// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/inkpress/internal/platform/constants"
	"github.com/taibuivan/inkpress/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the MongoDB primary.
	CheckDatabase func(context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 1)
	isSystemReady := true

	// Check MongoDB
	if handler.dependencies.CheckDatabase != nil {
		result := checkResult{Name: "mongodb", IsOK: true}
		if err := handler.dependencies.CheckDatabase(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", "mongodb"), slog.Any("error", err))
		}
		results = append(results, result)
	}

	payload := respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: results,
	}}

	if !isSystemReady {
		payload.Data = map[string]any{
			constants.FieldStatus: "degraded",
			constants.FieldChecks: results,
		}
		respond.JSON(writer, http.StatusServiceUnavailable, payload)
		return
	}

	respond.JSON(writer, http.StatusOK, payload)
}

// status handles GET /v1/status.
func status(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
		constants.FieldStatus:  "ok",
	})
}
