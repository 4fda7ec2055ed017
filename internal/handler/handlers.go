package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Schera-ole/empstatus/internal/config"
	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
	middlewareinternal "github.com/Schera-ole/empstatus/internal/middleware"
	models "github.com/Schera-ole/empstatus/internal/model"
	"github.com/Schera-ole/empstatus/internal/service"
)

// Router builds the HTTP API. metricsHandler may be nil.
func Router(
	logger *zap.SugaredLogger,
	config *config.ServerConfig,
	statusService *service.StatusService,
	metricsHandler http.Handler,
) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareinternal.LoggingMiddleware(logger))
	router.Use(middleware.Recoverer)
	router.Use(middlewareinternal.GzipMiddleware)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(15 * time.Second))

	router.Get("/healthz", HealthHandler)
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		PingHandler(w, r, statusService, logger)
	})
	if metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	router.Route("/api", func(r chi.Router) {
		r.Use(middlewareinternal.BearerAuth(config.APIToken))
		r.Post("/GetEmpStatus", func(w http.ResponseWriter, r *http.Request) {
			GetEmpStatusHandler(w, r, statusService, logger)
		})
	})
	return router
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func PingHandler(w http.ResponseWriter, r *http.Request, statusService *service.StatusService, logger *zap.SugaredLogger) {
	if err := statusService.Ping(r.Context()); err != nil {
		logger.Errorw("storage ping failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to connect to database")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func GetEmpStatusHandler(w http.ResponseWriter, r *http.Request, statusService *service.StatusService, logger *zap.SugaredLogger) {
	bustCache := false
	if raw := r.URL.Query().Get("bustCache"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "bustCache must be a boolean")
			return
		}
		bustCache = parsed
	}

	nationalNumber, err := DecodeEmpStatusRequest(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := statusService.GetEmpStatus(r.Context(), nationalNumber, bustCache)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, internalerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "Invalid National Number")
	case errors.Is(err, internalerrors.ErrUserInactive):
		writeError(w, http.StatusNotAcceptable, "User is not Active")
	case errors.Is(err, internalerrors.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA")
	default:
		logger.Errorw("failed to compute employee status", "nationalNumber", nationalNumber, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
