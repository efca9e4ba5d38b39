package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/bar-pos/controllers"
	"github.com/yeremiapane/bar-pos/display"
	"github.com/yeremiapane/bar-pos/middlewares"
	"github.com/yeremiapane/bar-pos/services"
)

// Options carries everything the HTTP layer needs.
type Options struct {
	Engine         *services.Engine
	Hub            *display.Hub
	Metrics        *services.Metrics
	AllowOrigin    string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.AllowOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if opts.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())
	}

	// Inisialisasi controller
	beverageCtrl := controllers.NewBeverageController(opts.Engine)
	taxCtrl := controllers.NewTaxController(opts.Engine)
	batchCtrl := controllers.NewBatchController(opts.Engine)
	transactionCtrl := controllers.NewTransactionController(opts.Engine)
	eventCtrl := controllers.NewEventController(opts.Engine)
	customerCtrl := controllers.NewCustomerController(opts.Engine)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	if opts.Hub != nil {
		r.GET("/ws/display", middlewares.WebSocketAuthMiddleware(), controllers.DisplayHandler(opts.Hub))
	}

	api := r.Group("/api")
	api.Use(middlewares.EmployeeMiddleware())

	// BEVERAGES
	api.GET("/beverages", beverageCtrl.ListBeverages)
	api.POST("/beverages", beverageCtrl.UpsertBeverage)
	api.GET("/beverages/popular", beverageCtrl.PopularItems)
	api.GET("/beverages/low-stock", beverageCtrl.LowStock)
	api.GET("/beverages/resolve", beverageCtrl.ResolveBeverage)
	api.GET("/beverages/:id", beverageCtrl.GetBeverage)
	api.PATCH("/beverages/:id", beverageCtrl.UpdateBeverage)
	api.DELETE("/beverages/:id", beverageCtrl.DeleteBeverage)
	api.GET("/beverages/:id/line-tax", beverageCtrl.LineTax)
	api.GET("/beverages/:id/recommendations", beverageCtrl.Recommendations)
	api.POST("/beverages/:id/recommendations", beverageCtrl.UpsertRecommendation)

	// TAX RATES (manager only for changes)
	api.GET("/tax-rates", taxCtrl.ListRates)
	api.POST("/tax-rates", middlewares.RequireRole("manager"), taxCtrl.UpdateRate)

	// BATCHES
	checkout := middlewares.CheckoutRateLimiter(20, 40)
	api.POST("/batches", batchCtrl.CreateBatch)
	api.GET("/batches", batchCtrl.ListBatches)
	api.GET("/batches/:batch_id", batchCtrl.ViewBatch)
	api.POST("/batches/:batch_id/items", batchCtrl.AddItem)
	api.DELETE("/batches/:batch_id/items/:item_id", batchCtrl.RemoveItem)
	api.POST("/batches/:batch_id/finalize", checkout, batchCtrl.FinalizeBatch)
	api.POST("/batches/:batch_id/cancel", batchCtrl.CancelBatch)

	// TRANSACTIONS
	api.POST("/transactions", checkout, transactionCtrl.RecordTransaction)
	api.GET("/transactions/:transaction_id", transactionCtrl.GetTransaction)
	receiptGroup := api.Group("/transactions/:transaction_id/receipt")
	receiptGroup.Use(middlewares.ReceiptLoggerMiddleware())
	{
		receiptGroup.GET("", transactionCtrl.GetReceipt)
		receiptGroup.GET("/pdf", transactionCtrl.GetReceiptPDF)
	}

	// REPORTS
	api.GET("/reports/revenue", transactionCtrl.RevenueSummary)
	api.GET("/reports/sales-trend", transactionCtrl.SalesTrend)

	// EVENTS
	api.GET("/events", eventCtrl.ListUpcoming)
	api.POST("/events", eventCtrl.CreateEvent)
	api.GET("/events/packages", eventCtrl.DrinkPackages)
	api.GET("/events/:event_id", eventCtrl.GetEvent)
	api.POST("/events/:event_id/bookings", eventCtrl.CreateBooking)

	// CUSTOMERS
	api.POST("/customers", customerCtrl.CreateCustomer)
	api.GET("/customers/:customer_id", customerCtrl.GetCustomer)

	return r
}
