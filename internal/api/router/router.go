package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cuongbtq/invoice-service/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "invoice-api-service",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	invoiceHandler := handler.NewInvoiceHandler(deps)

	v1 := r.Group("/api/v1")
	{
		invoices := v1.Group("/invoices")
		{
			// POST /api/v1/invoices - Submit an invoice-generation request
			invoices.POST("", invoiceHandler.GenerateInvoice)

			// GET /api/v1/invoices/:request_id - Poll request status
			invoices.GET("/:request_id", invoiceHandler.GetRequestStatus)
		}
	}

	return r
}
