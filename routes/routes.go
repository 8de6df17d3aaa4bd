package routes

import (
	"github.com/gofiber/fiber/v2"

	"gstbilling-backend/controllers"
	"gstbilling-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/register", controllers.Register)
	api.Post("/auth/login", controllers.Login)
	api.Post("/auth/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits on success, rolls back on error)
	protected.Use(middlewares.Tx())

	protected.Get("/auth/me", controllers.Me)

	// Invoices
	protected.Post("/invoices", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoices/stats", controllers.GetInvoiceStats) // before /:id
	protected.Get("/invoices/:id", controllers.GetInvoice)
	protected.Put("/invoices/:id", controllers.UpdateInvoice)
	protected.Delete("/invoices/:id", controllers.DeleteInvoice)
	protected.Put("/invoices/:id/status", controllers.UpdateInvoiceStatus)
	protected.Post("/invoices/:id/payment", controllers.AddPayment)
	protected.Get("/invoices/:id/pdf", controllers.GenerateInvoicePDF)

	// Customers
	protected.Post("/customers", controllers.CreateCustomer)
	protected.Get("/customers", controllers.GetCustomers)
	protected.Get("/customers/:id", controllers.GetCustomer)
	protected.Put("/customers/:id", controllers.UpdateCustomer)
	protected.Delete("/customers/:id", controllers.DeleteCustomer)

	// Products & stock
	protected.Post("/products", controllers.CreateProducts) // single or batch
	protected.Get("/products", controllers.GetProducts)
	protected.Get("/products/:id", controllers.GetProduct)
	protected.Put("/products/:id", controllers.UpdateProduct)
	protected.Delete("/products/:id", controllers.DeleteProduct)
	protected.Post("/products/:id/stock", controllers.AdjustStock)
	protected.Get("/products/:id/stock-ledger", controllers.GetStockLedger)

	// Company profile
	protected.Get("/company-profile", controllers.GetCompanyProfile)
	protected.Post("/company-profile", controllers.UpsertCompanyProfile)
}
