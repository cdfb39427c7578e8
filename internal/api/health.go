// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/respond"
)

// DependencyCheck is a single readiness probe target.
type DependencyCheck interface {
	Name() string
	Check(context context.Context) error
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	checks []DependencyCheck
	logger *slog.Logger
}

// NewHealthHandlers returns the GET /health and GET /ready handlers.
func NewHealthHandlers(logger *slog.Logger, checks ...DependencyCheck) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{checks: checks, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness answers 200 while the process can serve HTTP at all.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

/*
readiness probes every dependency concurrently under one ReadinessTimeout.

Description: 200 "ready" when all checks pass, otherwise 503 "degraded" with
the failing dependency's error in its entry.
*/
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	probeContext, cancel := context.WithTimeout(request.Context(), constants.ReadinessTimeout)
	defer cancel()

	results := make([]checkResult, len(handler.checks))

	var group errgroup.Group
	for i, dependency := range handler.checks {
		group.Go(func() error {
			results[i] = handler.probe(probeContext, dependency)
			return nil
		})
	}
	_ = group.Wait()

	status, httpStatus := "ready", http.StatusOK
	for _, result := range results {
		if !result.IsOK {
			status, httpStatus = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}

func (handler *healthHandler) probe(context context.Context, dependency DependencyCheck) checkResult {
	err := dependency.Check(context)
	if err == nil {
		return checkResult{Name: dependency.Name(), IsOK: true}
	}

	handler.logger.ErrorContext(context, "readiness_check_failed",
		slog.String("dependency", dependency.Name()),
		slog.Any("error", err),
	)
	return checkResult{Name: dependency.Name(), Error: err.Error()}
}
