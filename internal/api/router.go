package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"orderbot/internal/models"
)

// OrderSource - хранилище, из которого API читает заказы.
type OrderSource interface {
	Ping(ctx context.Context) error
	ListAllOrdersJoinedWithAccount(ctx context.Context) ([]models.OrderWithAccount, error)
}

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Store      OrderSource
	AdminToken string
	Logger     *zap.Logger
}

// NewRouter собирает chi-роутер служебного HTTP-сервера.
// Маршруты /api/admin/* регистрируются, только если задан AdminToken.
func NewRouter(deps ApiDependencies) *chi.Mux {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &apiHandlers{store: deps.Store, logger: deps.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)

	if deps.AdminToken == "" {
		deps.Logger.Info("ADMIN_API_TOKEN не задан, admin API отключен")
		return r
	}
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(AdminTokenMiddleware(deps.AdminToken))
		r.Get("/orders", h.listOrders)
		r.Get("/orders.xlsx", h.ordersWorkbook)
	})
	return r
}
