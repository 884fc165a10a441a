package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkarpov/currency-exchange-service/internal/application/service"
	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/logger"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// timeLayout is the wire format for update timestamps
const timeLayout = "2006-01-02 15:04:05"

// RatesHandler handles HTTP requests for rate refresh and update status
type RatesHandler struct {
	refresh    *service.RefreshService
	conversion *service.ConversionService
	base       string
	logger     logger.Logger
}

// NewRatesHandler creates a new rates handler. base is the reference
// currency used for triggered refreshes.
func NewRatesHandler(refresh *service.RefreshService, conversion *service.ConversionService, base string, log logger.Logger) *RatesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RatesHandler{
		refresh:    refresh,
		conversion: conversion,
		base:       base,
		logger:     log,
	}
}

// UpdateRates triggers a refresh against the external rate provider
func (h *RatesHandler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling update rates request", map[string]interface{}{
		"request_id": requestID,
		"base":       h.base,
	})

	message, err := h.refresh.Refresh(r.Context(), h.base)
	if err != nil {
		var fetchErr *entity.FetchError
		switch {
		case errors.As(err, &fetchErr):
			h.logger.Warn("Rate refresh failed", map[string]interface{}{
				"request_id": requestID,
				"kind":       string(fetchErr.Kind),
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Failed to update exchange rates",
				err.Error(), http.StatusBadRequest, requestID)
		default:
			h.logger.Error("Unexpected error in update rates", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred while updating exchange rates",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	resp := UpdateRatesResponse{
		Success: true,
		Message: message,
	}
	if ts, err := h.refresh.LastSuccessfulUpdate(r.Context()); err == nil {
		resp.LastUpdate = ts.Format(timeLayout)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// LastUpdate reports the time of the most recent successful refresh
func (h *RatesHandler) LastUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ts, err := h.refresh.LastSuccessfulUpdate(r.Context())
	if err != nil {
		if errors.Is(err, entity.ErrNoSuccessfulUpdate) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(LastUpdateResponse{
				Success: false,
				Message: "Rates have not been updated yet",
			})
			return
		}

		h.logger.Error("Failed to read update log", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while reading the update log",
			http.StatusInternalServerError, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LastUpdateResponse{
		Success:    true,
		LastUpdate: ts.Format(timeLayout),
	})
}

// Currencies returns the selectable currency list, popular codes first
func (h *RatesHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	list, err := h.conversion.ListCurrencies(r.Context())
	if err != nil {
		h.logger.Error("Failed to list currencies", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while listing currencies",
			http.StatusInternalServerError, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CurrenciesResponse{Currencies: list})
}

// RegisterRoutes registers the rates handler routes
func (h *RatesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/update_rates", h.UpdateRates).Methods("POST")
	router.HandleFunc("/api/last_update", h.LastUpdate).Methods("GET")
	router.HandleFunc("/api/currencies", h.Currencies).Methods("GET")

	h.logger.Info("Rates routes registered", map[string]interface{}{
		"routes": []string{
			"POST /api/update_rates",
			"GET /api/last_update",
			"GET /api/currencies",
		},
	})
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Success:     false,
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}
