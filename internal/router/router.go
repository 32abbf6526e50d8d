package router

import (
	"time"

	"garagemitre/internal/config"
	"garagemitre/internal/handler"
	"garagemitre/internal/middleware"
	"garagemitre/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries the pre-built services. They are constructed in main, not
// here, because the accrual scheduler and the event bus share them.
type Deps struct {
	Customers service.CustomerService
	Receipts  service.ReceiptService
	Ledger    service.LedgerService
	BoxLists  service.BoxListService
	Tickets   service.TicketService
}

// New wires middleware and routes and returns a configured Gin engine.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	customersH := handler.NewCustomersHandler(deps.Customers)
	receiptsH := handler.NewReceiptsHandler(deps.Receipts, deps.Ledger)
	boxListH := handler.NewBoxListHandler(deps.BoxLists)
	ticketsH := handler.NewTicketsHandler(deps.Tickets)

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.POST("/:id/vehicles", customersH.AddVehicle)
			customers.GET("/:id/receipts", receiptsH.ListByCustomer)
			customers.GET("/:id/debts", receiptsH.Debts)
		}

		receipts := v1.Group("/receipts")
		{
			receipts.POST("", receiptsH.Create)
			receipts.POST("/:id/pay", receiptsH.Pay)
			receipts.DELETE("/:id", receiptsH.Cancel)
		}

		boxLists := v1.Group("/box-lists")
		{
			boxLists.GET("/:date", boxListH.Get)
			boxLists.POST("/:date/recompute", boxListH.Recompute)
		}

		v1.POST("/tickets", ticketsH.Register)
		v1.POST("/tickets/day", ticketsH.RegisterDay)
		v1.POST("/other-payments", ticketsH.RegisterOtherPayment)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
