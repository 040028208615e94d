// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"medirural/controllers"
	"medirural/cron"
	"medirural/routes"
	"medirural/utils"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Initialize controllers
	userController := controllers.NewUserController(client)
	medicineController := controllers.NewMedicineController(client)
	cartController := controllers.NewCartController(client)
	orderController := controllers.NewOrderController(client, emailService)

	// Start the daily subscription auto-order runner
	autoOrderHour := 0
	if h, err := strconv.Atoi(os.Getenv("AUTO_ORDER_HOUR")); err == nil {
		autoOrderHour = h
	}
	runner := cron.NewAutoOrderRunner(cron.NewMongoOrderStore(client), emailService)
	go runner.Start(context.Background(), autoOrderHour)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, medicineController, cartController, orderController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
