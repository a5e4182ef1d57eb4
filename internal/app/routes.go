package app

import (
	"github.com/gin-gonic/gin"
	handlers "github.com/jeffleon2/draftea-settlement-service/internal/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) RegisterRoutes(h *handlers.PaymentHandler) {
	payments := a.Router.Group("/payments")
	payments.POST("", h.CreatePayment)
	payments.POST("/:id/watch", h.WatchPayment)
	payments.POST("/:id/verify", h.VerifyPayment)
	payments.GET("/:id/status", h.PaymentStatus)

	a.Router.GET("/monitor/status", h.MonitorStatus)
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
