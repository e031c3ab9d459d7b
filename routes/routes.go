package routes

import (
	"distropro-backend/config"
	"distropro-backend/controllers"
	"distropro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Product catalog
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Stock batches
		batches := api.Group("/batches")
		{
			batches.POST("", controllers.CreateBatch)
			batches.GET("", controllers.GetBatches)
			batches.PUT("/:id", controllers.UpdateBatch)
			batches.DELETE("/:id", controllers.DeleteBatch)
			batches.POST("/delete-selected", controllers.DeleteSelectedBatches)
		}

		// Draft sale (cart)
		cart := api.Group("/cart")
		{
			cart.GET("", controllers.GetCart)
			cart.POST("/items", controllers.AddCartItem)
			cart.DELETE("/items/:itemId", controllers.RemoveCartItem)
			cart.POST("/finalize", controllers.FinalizeCart)
		}

		// Sales transactions
		sales := api.Group("/sales")
		{
			sales.GET("", controllers.GetSalesTransactions)
			sales.GET("/export", controllers.ExportSalesCSV)
			sales.GET("/:id", controllers.GetSalesTransaction)
			sales.POST("/:id/reverse", controllers.ReverseSalesTransaction)
		}

		// Delivery settlement
		deliveries := api.Group("/deliveries")
		{
			deliveries.GET("/pending", controllers.GetPendingDeliveries)
			deliveries.POST("/:id/settle", controllers.SettleDelivery)
			deliveries.POST("/:id/cancel", controllers.CancelPendingDelivery)
			deliveries.POST("/:id/ready", controllers.MarkReadyForProcessing)
			deliveries.POST("/vehicle/:vehicleId/process", controllers.ProcessVehiclePending)
		}

		// Credit ledgers
		ledger := api.Group("/ledger")
		{
			ledger.GET("/accounts", controllers.GetCreditAccounts)
			ledger.GET("/shop/:shopId", controllers.GetShopLedger)
			ledger.GET("/customer", controllers.GetCustomerLedger)
			ledger.POST("/entries", controllers.CreateLedgerEntry)
			ledger.PUT("/entries/:id", controllers.UpdateLedgerEntry)
			ledger.DELETE("/entries/:id", controllers.DeleteLedgerEntry)
			ledger.POST("/shop/:shopId/recalc", controllers.RecalcShopBalances)
			ledger.POST("/customer/recalc", controllers.RecalcCustomerBalances)
		}

		// Claims
		claims := api.Group("/claims")
		{
			claims.POST("", controllers.CreateClaim)
			claims.GET("", controllers.GetClaims)
			claims.GET("/:id", controllers.GetClaim)
			claims.POST("/:id/submit", controllers.SubmitClaim)
			claims.POST("/process-pending", controllers.ProcessPendingClaims)
			claims.DELETE("/:id", controllers.DeleteClaim)
		}

		// Shops
		shops := api.Group("/shops")
		{
			shops.POST("", controllers.CreateShop)
			shops.GET("", controllers.GetShops)
			shops.PUT("/:id", controllers.UpdateShop)
			shops.DELETE("/:id", controllers.DeleteShop)
		}

		// Vehicles
		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("", controllers.CreateVehicle)
			vehicles.GET("", controllers.GetVehicles)
			vehicles.PUT("/:id", controllers.UpdateVehicle)
			vehicles.DELETE("/:id", controllers.DeleteVehicle)
		}

		// Expenses
		expenses := api.Group("/expenses")
		{
			expenses.POST("", controllers.CreateExpense)
			expenses.GET("", controllers.GetExpenses)
			expenses.PUT("/:id", controllers.UpdateExpense)
			expenses.DELETE("/:id", controllers.DeleteExpense)
		}

		// Notes
		notes := api.Group("/notes")
		{
			notes.POST("", controllers.CreateNote)
			notes.GET("", controllers.GetNotes)
			notes.PUT("/:id", controllers.UpdateNote)
			notes.POST("/:id/toggle", controllers.ToggleNote)
			notes.POST("/reorder", controllers.ReorderNotes)
			notes.DELETE("/:id", controllers.DeleteNote)
		}

		// Dashboard and reports
		api.GET("/dashboard", controllers.GetDashboardOverview)
		reports := api.Group("/reports")
		{
			reports.GET("/daily", controllers.GetDailySummary)
			reports.GET("/range", controllers.GetSummaryRange)
			reports.POST("/daily/regenerate", controllers.RegenerateDailySummary)
		}

		// AJAX snapshot endpoints for the admin dialogs
		ajax := api.Group("/ajax")
		{
			ajax.GET("/batches/:id", controllers.AjaxGetBatchDetails)
			ajax.GET("/shops/:id", controllers.AjaxGetShopDetails)
			ajax.GET("/vehicles/:id", controllers.AjaxGetVehicleDetails)
			ajax.GET("/claims/:id", controllers.AjaxGetClaimDetails)
			ajax.GET("/expenses/:id", controllers.AjaxGetExpenseDetails)
			ajax.GET("/ledger-entries/:id", controllers.AjaxGetLedgerEntry)
		}
	}

	return r
}
