package devserver

import (
	"github.com/gin-gonic/gin"
)

// Router configures the Gin engine with the invoice backend's routes.
func Router(h *Handler) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger())

	invoices := r.Group("/invoices")
	invoices.POST("/upload", h.Upload)
	invoices.POST("", h.Create)
	invoices.GET("", h.List)
	invoices.GET("/export", h.Export)
	invoices.GET("/:id", h.Get)
	invoices.PUT("/:id", h.Update)
	invoices.DELETE("/:id", h.Delete)

	return r
}
