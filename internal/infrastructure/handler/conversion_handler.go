// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dkarpov/currency-exchange-service/internal/application/service"
	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/logger"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service *service.ConversionService, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		service: service,
		logger:  log,
	}
}

// Convert handles a conversion request
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	// Parse request body
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.FromCurrency == "" || req.ToCurrency == "" || len(req.Amount) == 0 {
		sendErrorResponse(w, h.logger, "Missing required fields",
			"from_currency, to_currency and amount are all required", http.StatusBadRequest, requestID)
		return
	}

	// Coerce the amount, which may arrive as a JSON string or number
	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.logger.Warn("Non-numeric amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     string(req.Amount),
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"Amount must be a number", http.StatusBadRequest, requestID)
		return
	}

	from := strings.ToUpper(strings.TrimSpace(req.FromCurrency))
	to := strings.ToUpper(strings.TrimSpace(req.ToCurrency))

	h.logger.Info("Handling convert request", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     amount,
	})

	result, err := h.service.Convert(r.Context(), from, to, amount)
	if err != nil {
		var unknown *entity.UnknownCurrencyError
		switch {
		case errors.As(err, &unknown):
			h.logger.Warn("Unknown currency", map[string]interface{}{
				"request_id": requestID,
				"code":       unknown.Code,
			})
			sendErrorResponse(w, h.logger, fmt.Sprintf("Currency %s not found", unknown.Code),
				"The currency is not in the rate store; refresh rates or check the code",
				http.StatusBadRequest, requestID)
		case errors.Is(err, entity.ErrInvalidAmount):
			h.logger.Warn("Invalid amount", map[string]interface{}{
				"request_id": requestID,
				"amount":     amount,
			})
			sendErrorResponse(w, h.logger, "Invalid amount",
				"Amount must be a positive finite number", http.StatusBadRequest, requestID)
		case errors.Is(err, entity.ErrZeroRate):
			h.logger.Error("Zero rate in store", map[string]interface{}{
				"request_id": requestID,
				"from":       from,
				"to":         to,
			})
			sendErrorResponse(w, h.logger, "Conversion unavailable",
				"The stored rate for the source currency is zero", http.StatusInternalServerError, requestID)
		default:
			h.logger.Error("Unexpected error in convert", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred during conversion", http.StatusInternalServerError, requestID)
		}
		return
	}

	// The conversion itself succeeded; a missing rate description is not
	// worth failing the request over
	rateInfo, err := h.service.DescribeRate(r.Context(), from, to)
	if err != nil {
		rateInfo = ""
	}

	h.logger.Info("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     amount,
		"result":     result,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConvertResponse{
		Success:      true,
		Result:       result,
		FromCurrency: from,
		ToCurrency:   to,
		Amount:       amount,
		RateInfo:     rateInfo,
	})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/convert", h.Convert).Methods("POST")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"POST /api/convert",
		},
	})
}
