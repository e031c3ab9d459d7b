package main

import (
	"fmt"
	"log"
	"os"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/routes"
	"distropro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductDetail{},
		&models.Shop{},
		&models.Vehicle{},
		&models.DraftSale{},
		&models.DraftSaleItem{},
		&models.SalesTransaction{},
		&models.SalesTransactionItem{},
		&models.ShopFinancialTransaction{},
		&models.Claim{},
		&models.ClaimItem{},
		&models.Expense{},
		&models.Note{},
		&models.DailySummary{},
		&models.CreditReminderLog{},
	)
}

func main() {
	services.NewSummaryService(config.DB).StartScheduler()
	services.NewReminderService(config.DB).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
