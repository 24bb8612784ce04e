package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/ario/internal/config"
	"github.com/example/ario/internal/handlers"
	"github.com/example/ario/internal/middleware"
	"github.com/example/ario/internal/services"
)

// Register wires up all HTTP routes. The mailer and blob store are passed
// in so tests can substitute recorders.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer services.Mailer, blobs services.BlobStore) {
	userHandler := handlers.NewUserHandler(db, cfg, mailer)
	styleHandler := handlers.NewStyleHandler(db, blobs)
	orderHandler := handlers.NewOrderHandler(db)

	auth := middleware.AuthMiddleware(cfg)

	// User routes
	users := app.Group("/users")
	users.Post("/", userHandler.Signup)
	users.Get("/getUser", auth, userHandler.GetUser)
	users.Get("/", userHandler.GetAllUsers)
	users.Put("/UpdateUser", auth, userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)
	users.Delete("/", userHandler.DeleteAllUsers)

	users.Get("/verifyemail/:token", userHandler.VerifyEmailUpdate)
	users.Post("/verifyOTP", auth, userHandler.VerifyOTP)
	users.Post("/resendOTP", auth, userHandler.ResendOTP)
	users.Post("/login", userHandler.Login)
	users.Post("/logout", auth, userHandler.Logout)
	users.Post("/forgotPassword", userHandler.ForgotPassword)
	users.Get("/resetPassword/:token", userHandler.ResetPassword)
	users.Post("/resendVerificationLink", auth, userHandler.ResendVerificationLink)
	users.Post("/addMostlyWear", auth, userHandler.AddMostlyWear)
	users.Post("/addPreferredSM", auth, userHandler.AddPreferredSM)
	users.Post("/addMenMeasurement", auth, userHandler.AddMeasurement)
	users.Post("/jwtrefreshtoken", userHandler.RefreshToken)

	// Style routes
	styles := app.Group("/styles")
	styles.Post("/create-style", auth, styleHandler.CreateStyle)
	styles.Get("/all-styles", auth, styleHandler.ListStyles)
	styles.Put("/update-style/:styleId", auth, styleHandler.UpdateStyle)
	styles.Delete("/delete-style/:styleId", auth, styleHandler.DeleteStyle)

	// Order routes
	orders := app.Group("/orders")
	orders.Post("/create-order", auth, orderHandler.CreateOrder)
	orders.Put("/update-order/:orderId", auth, orderHandler.UpdateOrder)
	orders.Get("/order-status/:orderId", auth, orderHandler.GetOrderStatus)
	orders.Get("/order-detail/:orderId", auth, orderHandler.GetOrderDetails)
	orders.Get("/all-orders", auth, orderHandler.GetAllOrders)
	orders.Delete("/delete-order/:orderId", auth, orderHandler.DeleteOrder)
}
