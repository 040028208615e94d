package routes

import (
	"medirural/controllers"
	"medirural/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, medicineController *controllers.MedicineController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	// Public user routes
	router.HandleFunc("/api/users/register", userController.Register).Methods("POST")
	router.HandleFunc("/api/users/login", userController.Login).Methods("POST")

	// Protected user routes
	profile := router.PathPrefix("/api/users").Subrouter()
	profile.Use(middleware.AuthMiddleware)
	profile.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Public medicine routes
	router.HandleFunc("/api/medicines", medicineController.GetMedicines).Methods("GET")
	router.HandleFunc("/api/medicines/{id}", medicineController.GetMedicineByID).Methods("GET")

	// Admin medicine routes
	admin := router.PathPrefix("/api/medicines").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", medicineController.CreateMedicine).Methods("POST")
	admin.HandleFunc("/{id}", medicineController.UpdateMedicine).Methods("PUT")
	admin.HandleFunc("/{id}", medicineController.DeleteMedicine).Methods("DELETE")

	// Cart routes
	cart := router.PathPrefix("/api/cart").Subrouter()
	cart.Use(middleware.AuthMiddleware)
	cart.HandleFunc("", cartController.AddToCart).Methods("POST")
	cart.HandleFunc("", cartController.GetCart).Methods("GET")
	cart.HandleFunc("", cartController.RemoveFromCart).Methods("DELETE")

	// Order routes
	orders := router.PathPrefix("/api/orders").Subrouter()
	orders.Use(middleware.AuthMiddleware)
	orders.HandleFunc("", orderController.GetOrders).Methods("GET")
	orders.HandleFunc("", orderController.CreateOrder).Methods("POST")
	orders.HandleFunc("/user/subscriptions", orderController.GetUserSubscriptions).Methods("GET")
	orders.HandleFunc("/{id}", orderController.GetOrderByID).Methods("GET")
	orders.HandleFunc("/{id}/cancel", orderController.CancelOrder).Methods("PUT")

	// Staff order administration
	staff := router.PathPrefix("/api/orders").Subrouter()
	staff.Use(middleware.AuthMiddleware)
	staff.Use(middleware.StaffMiddleware)
	staff.HandleFunc("/{id}", orderController.UpdateOrder).Methods("PUT")
	staff.HandleFunc("/{id}", orderController.DeleteOrder).Methods("DELETE")
}
