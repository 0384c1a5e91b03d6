package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"orderbot/internal/export"
	"orderbot/internal/models"
)

const healthTimeout = 3 * time.Second

type jsonResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// --- Вспомогательные функции для JSON-ответов ---
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(jsonResponse{Status: "error", Message: message})
}

func writeJSONSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(jsonResponse{Status: "ok", Data: data})
}

type apiHandlers struct {
	store  OrderSource
	logger *zap.Logger
}

// health отвечает 200, если хранилище доступно (или не подключено).
func (h *apiHandlers) health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("healthz: БД недоступна", zap.Error(err))
			writeJSONError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSONSuccess(w, nil)
}

func (h *apiHandlers) loadOrders(w http.ResponseWriter, r *http.Request) ([]models.OrderWithAccount, bool) {
	if h.store == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "store is not configured")
		return nil, false
	}
	orders, err := h.store.ListAllOrdersJoinedWithAccount(r.Context())
	if err != nil {
		h.logger.Error("API: не удалось получить заказы", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to load orders")
		return nil, false
	}
	if orders == nil {
		orders = []models.OrderWithAccount{}
	}
	return orders, true
}

// listOrders - GET /api/admin/orders.
func (h *apiHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.loadOrders(w, r)
	if !ok {
		return
	}
	writeJSONSuccess(w, orders)
}

// ordersWorkbook - GET /api/admin/orders.xlsx.
func (h *apiHandlers) ordersWorkbook(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.loadOrders(w, r)
	if !ok {
		return
	}
	data, err := export.AllOrdersXLSX(orders)
	if err != nil {
		h.logger.Error("API: ошибка формирования Excel", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="barcha_buyurtmalar.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("API: ответ не отправлен", zap.Error(err))
	}
}
